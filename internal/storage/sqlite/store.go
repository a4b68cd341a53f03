package sqlite

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"retainbot/internal/domain"
)

// farFuture bounds open-ended history queries.
var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// Store is the sqlite-backed record store for members, plans and attendance
// events. Concurrent writes are serialized by sqlite itself.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL,
		price           REAL NOT NULL,
		duration_months INTEGER NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS members (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		phone       TEXT DEFAULT '',
		enrolled_at DATETIME NOT NULL,
		plan_id     INTEGER NOT NULL,
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_members_active ON members(active);
	CREATE INDEX IF NOT EXISTS idx_members_enrolled_at ON members(enrolled_at);

	CREATE TABLE IF NOT EXISTS attendance_events (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id        INTEGER NOT NULL,
		entry_at         DATETIME NOT NULL,
		exit_at          DATETIME,
		duration_minutes INTEGER,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_events_member ON attendance_events(member_id);
	CREATE INDEX IF NOT EXISTS idx_events_entry_at ON attendance_events(entry_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- Plans ---

func (s *Store) CreatePlan(name string, price float64, durationMonths int) (domain.Plan, error) {
	res, err := s.db.Exec(
		`INSERT INTO plans (name, price, duration_months) VALUES (?, ?, ?)`,
		name, price, durationMonths,
	)
	if err != nil {
		return domain.Plan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Plan{}, err
	}
	return s.GetPlan(id)
}

func (s *Store) GetPlan(id int64) (domain.Plan, error) {
	var p domain.Plan
	err := s.db.QueryRow(
		`SELECT id, name, price, duration_months, created_at FROM plans WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.DurationMonths, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, domain.ErrPlanNotFound
	}
	return p, err
}

// --- Members ---

func (s *Store) CreateMember(name, email, phone string, enrolledAt time.Time, planID int64) (domain.Member, error) {
	if _, err := s.GetPlan(planID); err != nil {
		return domain.Member{}, err
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM members WHERE email = ?`, email).Scan(&count); err != nil {
		return domain.Member{}, err
	}
	if count > 0 {
		return domain.Member{}, domain.ErrEmailExists
	}
	res, err := s.db.Exec(
		`INSERT INTO members (name, email, phone, enrolled_at, plan_id, active) VALUES (?, ?, ?, ?, ?, 1)`,
		name, email, phone, enrolledAt, planID,
	)
	if err != nil {
		return domain.Member{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Member{}, err
	}
	return s.GetMember(id)
}

func (s *Store) GetMember(id int64) (domain.Member, error) {
	var m domain.Member
	err := s.db.QueryRow(
		`SELECT id, name, email, phone, enrolled_at, plan_id, active, created_at, updated_at
		 FROM members WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.EnrolledAt, &m.PlanID, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return m, err
}

func (s *Store) SetMemberActive(id int64, active bool) error {
	res, err := s.db.Exec(
		`UPDATE members SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (s *Store) ListActiveMembers() ([]domain.Member, error) {
	return s.listMembers(`SELECT id, name, email, phone, enrolled_at, plan_id, active, created_at, updated_at
		 FROM members WHERE active = 1 ORDER BY id`)
}

// ListMembersEnrolledBefore returns every member, active or not, enrolled on
// or before the cutoff. Used to build training snapshots.
func (s *Store) ListMembersEnrolledBefore(cutoff time.Time) ([]domain.Member, error) {
	return s.listMembers(`SELECT id, name, email, phone, enrolled_at, plan_id, active, created_at, updated_at
		 FROM members WHERE enrolled_at <= ? ORDER BY id`, cutoff)
}

func (s *Store) listMembers(query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.EnrolledAt, &m.PlanID, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) CountActiveMembers() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM members WHERE active = 1`).Scan(&count)
	return count, err
}

// --- Attendance events ---

// CheckIn records an entry for a member. The member must exist and be
// active, and must not already have an open visit.
func (s *Store) CheckIn(memberID int64, entryAt time.Time) (domain.AttendanceEvent, error) {
	member, err := s.GetMember(memberID)
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	if !member.Active {
		return domain.AttendanceEvent{}, domain.ErrMemberInactive
	}

	var open int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM attendance_events WHERE member_id = ? AND exit_at IS NULL`,
		memberID,
	).Scan(&open)
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	if open > 0 {
		return domain.AttendanceEvent{}, domain.ErrOpenVisit
	}

	res, err := s.db.Exec(
		`INSERT INTO attendance_events (member_id, entry_at) VALUES (?, ?)`,
		memberID, entryAt,
	)
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	return s.GetEvent(id)
}

// CheckOut stamps the exit time on an open visit and derives its duration.
func (s *Store) CheckOut(eventID int64, exitAt time.Time) (domain.AttendanceEvent, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	if event.Closed() {
		return domain.AttendanceEvent{}, domain.ErrVisitClosed
	}

	duration := int(exitAt.Sub(event.EntryAt).Minutes())
	_, err = s.db.Exec(
		`UPDATE attendance_events SET exit_at = ?, duration_minutes = ? WHERE id = ?`,
		exitAt, duration, eventID,
	)
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	return s.GetEvent(eventID)
}

func (s *Store) GetEvent(id int64) (domain.AttendanceEvent, error) {
	var e domain.AttendanceEvent
	var exitAt sql.NullTime
	var duration sql.NullInt64
	err := s.db.QueryRow(
		`SELECT id, member_id, entry_at, exit_at, duration_minutes, created_at
		 FROM attendance_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.MemberID, &e.EntryAt, &exitAt, &duration, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttendanceEvent{}, domain.ErrEventNotFound
	}
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	if exitAt.Valid {
		t := exitAt.Time
		e.ExitAt = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.DurationMinutes = &d
	}
	return e, nil
}

// QueryEvents returns a member's events with entry_at in [from, to), ordered
// by entry time.
func (s *Store) QueryEvents(memberID int64, from, to time.Time) ([]domain.AttendanceEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, member_id, entry_at, exit_at, duration_minutes, created_at
		 FROM attendance_events
		 WHERE member_id = ? AND entry_at >= ? AND entry_at < ?
		 ORDER BY entry_at, id`,
		memberID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AttendanceEvent
	for rows.Next() {
		var e domain.AttendanceEvent
		var exitAt sql.NullTime
		var duration sql.NullInt64
		if err := rows.Scan(&e.ID, &e.MemberID, &e.EntryAt, &exitAt, &duration, &e.CreatedAt); err != nil {
			return nil, err
		}
		if exitAt.Valid {
			t := exitAt.Time
			e.ExitAt = &t
		}
		if duration.Valid {
			d := int(duration.Int64)
			e.DurationMinutes = &d
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEventsByMember returns a member's full attendance history ordered by
// entry time.
func (s *Store) ListEventsByMember(memberID int64) ([]domain.AttendanceEvent, error) {
	return s.QueryEvents(memberID, time.Time{}, farFuture)
}

// CountEvents counts a member's events with entry_at in [from, to).
func (s *Store) CountEvents(memberID int64, from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM attendance_events WHERE member_id = ? AND entry_at >= ? AND entry_at < ?`,
		memberID, from, to,
	).Scan(&count)
	return count, err
}

func (s *Store) CountAllEvents() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM attendance_events`).Scan(&count)
	return count, err
}
