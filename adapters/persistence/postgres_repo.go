package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresDirectoryRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresDirectoryRepo keeps the record sets in normalized tables. Every
// Save replaces the whole set inside a single transaction, and a position
// column preserves insertion order.
func NewPostgresDirectoryRepo(db *pgxpool.Pool, log logger.Logger) directory.Repository {
	return &postgresDirectoryRepo{db: db, logger: log}
}

var profileColumns = []string{
	"p.id", "p.name", "p.title", "p.department", "p.bio", "p.image",
	"p.hourly_rate", "p.day_rate", "p.yearly_salary", "p.project_rates", "p.tags", "p.extra",
	"COALESCE(c.email, '')", "COALESCE(c.phone, '')", "COALESCE(c.website, '')", "COALESCE(c.location, '')", "c.social",
	"COALESCE(a.status, '')", "COALESCE(a.available_from, '')", "COALESCE(a.next_available, '')",
	"COALESCE(a.preferred_hours, '')", "COALESCE(a.timezone, '')", "a.booking_lead_time", "a.capacity",
}

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var (
		p                              profile.Profile
		status                         string
		rates, extra, social, capacity []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Title, &p.Department, &p.Bio, &p.Image,
		&p.HourlyRate, &p.DayRate, &p.YearlySalary, &rates, &p.Tags, &extra,
		&p.Contact.Email, &p.Contact.Phone, &p.Contact.Website, &p.Contact.Location, &social,
		&status, &p.Availability.AvailableFrom, &p.Availability.NextAvailable,
		&p.Availability.PreferredHours, &p.Availability.Timezone, &p.Availability.BookingLeadTime, &capacity,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan profile row: %w", err)
	}
	p.Availability.Status = profile.AvailabilityStatus(status)

	if err := unmarshalNullable(rates, &p.ProjectRates); err != nil {
		return p, fmt.Errorf("project_rates of %s: %w", p.ID, err)
	}
	if err := unmarshalNullable(social, &p.Contact.Social); err != nil {
		return p, fmt.Errorf("social of %s: %w", p.ID, err)
	}
	if err := unmarshalNullable(capacity, &p.Availability.Capacity); err != nil {
		return p, fmt.Errorf("capacity of %s: %w", p.ID, err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &p.Extra); err != nil {
			return p, fmt.Errorf("extra of %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func unmarshalNullable[T any](b []byte, dst **T) error {
	if len(b) == 0 {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// nullableJSON yields an untyped nil for absent values so COPY writes NULL.
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *postgresDirectoryRepo) LoadProfiles(ctx context.Context) ([]profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles p").
		LeftJoin("contact_info c ON c.profile_id = p.id").
		LeftJoin("availability a ON a.profile_id = p.id").
		OrderBy("p.position").
		ToSql()
	if err != nil {
		return nil, apperror.NewPersistence("build profiles query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewPersistence("query profiles", err)
	}
	profiles := make([]profile.Profile, 0)
	index := map[string]int{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return nil, apperror.NewPersistence("scan profiles", err)
		}
		index[p.ID] = len(profiles)
		profiles = append(profiles, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperror.NewPersistence("iterate profiles", err)
	}

	if err := r.loadProfileSkills(ctx, profiles, index); err != nil {
		return nil, err
	}
	if err := r.loadEducation(ctx, profiles, index); err != nil {
		return nil, err
	}
	if err := r.loadCertifications(ctx, profiles, index); err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].Normalize()
	}
	return profiles, nil
}

func (r *postgresDirectoryRepo) queryChildren(ctx context.Context, table string, columns ...string) (pgx.Rows, error) {
	query, args, err := psql.Select(append([]string{"profile_id"}, columns...)...).
		From(table).
		OrderBy("profile_id", "position").
		ToSql()
	if err != nil {
		return nil, apperror.NewPersistence("build "+table+" query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewPersistence("query "+table, err)
	}
	return rows, nil
}

func (r *postgresDirectoryRepo) loadProfileSkills(ctx context.Context, profiles []profile.Profile, index map[string]int) error {
	rows, err := r.queryChildren(ctx, "profile_skills", "skill_id", "name", "category", "proficiency")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			profileID, proficiency string
			s                      profile.ProfileSkill
		)
		if err := rows.Scan(&profileID, &s.ID, &s.Name, &s.Category, &proficiency); err != nil {
			return apperror.NewPersistence("scan profile_skills", err)
		}
		s.Proficiency = profile.Proficiency(proficiency)
		if i, ok := index[profileID]; ok {
			profiles[i].Skills = append(profiles[i].Skills, s)
		}
	}
	if err := rows.Err(); err != nil {
		return apperror.NewPersistence("iterate profile_skills", err)
	}
	return nil
}

func (r *postgresDirectoryRepo) loadEducation(ctx context.Context, profiles []profile.Profile, index map[string]int) error {
	rows, err := r.queryChildren(ctx, "education", "institution", "degree", "field", "start_date", "end_date")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			profileID string
			e         profile.Education
		)
		if err := rows.Scan(&profileID, &e.Institution, &e.Degree, &e.Field, &e.StartDate, &e.EndDate); err != nil {
			return apperror.NewPersistence("scan education", err)
		}
		if i, ok := index[profileID]; ok {
			profiles[i].Education = append(profiles[i].Education, e)
		}
	}
	if err := rows.Err(); err != nil {
		return apperror.NewPersistence("iterate education", err)
	}
	return nil
}

func (r *postgresDirectoryRepo) loadCertifications(ctx context.Context, profiles []profile.Profile, index map[string]int) error {
	rows, err := r.queryChildren(ctx, "certifications", "name", "issuer", "issued_on", "expires_on")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			profileID string
			c         profile.Certification
		)
		if err := rows.Scan(&profileID, &c.Name, &c.Issuer, &c.Date, &c.ExpiryDate); err != nil {
			return apperror.NewPersistence("scan certifications", err)
		}
		if i, ok := index[profileID]; ok {
			profiles[i].Certifications = append(profiles[i].Certifications, c)
		}
	}
	if err := rows.Err(); err != nil {
		return apperror.NewPersistence("iterate certifications", err)
	}
	return nil
}

// profileCopy holds the COPY input for every profile table.
type profileCopy struct {
	profiles, contacts, availability, skills, education, certifications [][]any
}

func buildProfileCopy(profiles []profile.Profile) (*profileCopy, error) {
	out := &profileCopy{}
	for pos, p := range profiles {
		rates, err := nullableJSON(p.ProjectRates)
		if err != nil {
			return nil, fmt.Errorf("marshal project rates of %s: %w", p.ID, err)
		}
		social, err := nullableJSON(p.Contact.Social)
		if err != nil {
			return nil, fmt.Errorf("marshal social links of %s: %w", p.ID, err)
		}
		capacity, err := nullableJSON(p.Availability.Capacity)
		if err != nil {
			return nil, fmt.Errorf("marshal capacity of %s: %w", p.ID, err)
		}
		var extra, tags any
		if len(p.Extra) > 0 {
			b, err := json.Marshal(p.Extra)
			if err != nil {
				return nil, fmt.Errorf("marshal extra of %s: %w", p.ID, err)
			}
			extra = b
		}
		if p.Tags != nil {
			tags = p.Tags
		}

		out.profiles = append(out.profiles, []any{
			p.ID, pos, p.Name, p.Title, p.Department, p.Bio, p.Image,
			p.HourlyRate, p.DayRate, p.YearlySalary, rates, tags, extra,
		})
		out.contacts = append(out.contacts, []any{
			p.ID, p.Contact.Email, p.Contact.Phone, p.Contact.Website, p.Contact.Location, social,
		})
		out.availability = append(out.availability, []any{
			p.ID, string(p.Availability.Status), p.Availability.AvailableFrom, p.Availability.NextAvailable,
			p.Availability.PreferredHours, p.Availability.Timezone, p.Availability.BookingLeadTime, capacity,
		})
		for i, s := range p.Skills {
			out.skills = append(out.skills, []any{p.ID, i, s.ID, s.Name, s.Category, string(s.Proficiency)})
		}
		for i, e := range p.Education {
			out.education = append(out.education, []any{p.ID, i, e.Institution, e.Degree, e.Field, e.StartDate, e.EndDate})
		}
		for i, c := range p.Certifications {
			out.certifications = append(out.certifications, []any{p.ID, i, c.Name, c.Issuer, c.Date, c.ExpiryDate})
		}
	}
	return out, nil
}

func (r *postgresDirectoryRepo) SaveProfiles(ctx context.Context, profiles []profile.Profile) error {
	data, err := buildProfileCopy(profiles)
	if err != nil {
		return apperror.NewPersistence("encode profiles", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewPersistence("begin profiles transaction", err)
	}
	defer tx.Rollback(ctx)

	// Child rows go with their profile through ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, "DELETE FROM profiles"); err != nil {
		return apperror.NewPersistence("clear profiles", err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"profiles", []string{"id", "position", "name", "title", "department", "bio", "image",
			"hourly_rate", "day_rate", "yearly_salary", "project_rates", "tags", "extra"}, data.profiles},
		{"contact_info", []string{"profile_id", "email", "phone", "website", "location", "social"}, data.contacts},
		{"availability", []string{"profile_id", "status", "available_from", "next_available",
			"preferred_hours", "timezone", "booking_lead_time", "capacity"}, data.availability},
		{"profile_skills", []string{"profile_id", "position", "skill_id", "name", "category", "proficiency"}, data.skills},
		{"education", []string{"profile_id", "position", "institution", "degree", "field", "start_date", "end_date"}, data.education},
		{"certifications", []string{"profile_id", "position", "name", "issuer", "issued_on", "expires_on"}, data.certifications},
	}
	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return apperror.NewPersistence("copy "+c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewPersistence("commit profiles", err)
	}
	r.logger.Debug("Profiles replaced", zap.Int("count", len(profiles)))
	return nil
}

func (r *postgresDirectoryRepo) LoadSkills(ctx context.Context) ([]skill.Skill, error) {
	query, args, err := psql.Select("id", "name", "category").From("skills").OrderBy("position").ToSql()
	if err != nil {
		return nil, apperror.NewPersistence("build skills query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewPersistence("query skills", err)
	}
	defer rows.Close()

	skills := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, apperror.NewPersistence("scan skills", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewPersistence("iterate skills", err)
	}
	return skills, nil
}

func (r *postgresDirectoryRepo) SaveSkills(ctx context.Context, skills []skill.Skill) error {
	insert := psql.Insert("skills").Columns("id", "position", "name", "category")
	for i, s := range skills {
		insert = insert.Values(s.ID, i, s.Name, s.Category)
	}
	return r.replace(ctx, "skills", insert, len(skills))
}

func (r *postgresDirectoryRepo) LoadCategories(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("name").From("categories").OrderBy("position").ToSql()
	if err != nil {
		return nil, apperror.NewPersistence("build categories query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewPersistence("query categories", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperror.NewPersistence("scan categories", err)
	}
	return emptyIfNil(categories), nil
}

func (r *postgresDirectoryRepo) SaveCategories(ctx context.Context, categories []string) error {
	insert := psql.Insert("categories").Columns("name", "position")
	for i, c := range categories {
		insert = insert.Values(c, i)
	}
	return r.replace(ctx, "categories", insert, len(categories))
}

// replace swaps the content of a flat table in one transaction.
func (r *postgresDirectoryRepo) replace(ctx context.Context, table string, insert sq.InsertBuilder, n int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewPersistence("begin "+table+" transaction", err)
	}
	defer tx.Rollback(ctx)

	del, args, err := psql.Delete(table).ToSql()
	if err != nil {
		return apperror.NewPersistence("build "+table+" delete", err)
	}
	if _, err := tx.Exec(ctx, del, args...); err != nil {
		return apperror.NewPersistence("clear "+table, err)
	}

	if n > 0 {
		query, args, err := insert.ToSql()
		if err != nil {
			return apperror.NewPersistence("build "+table+" insert", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return apperror.NewPersistence("insert "+table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewPersistence("commit "+table, err)
	}
	r.logger.Debug("Table replaced", zap.String("table", table), zap.Int("count", n))
	return nil
}
