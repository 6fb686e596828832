package store

import (
	"context"
	"time"

	"meeting-intake-api/internal/model"
)

const meetingColumns = `id, name, organization, reason, email, phone,
	preferred_datetime, assigned_datetime, status, comment, signature, created_at`

func scanMeeting(row interface{ Scan(...any) error }, m *model.Meeting) error {
	return row.Scan(
		&m.ID, &m.Name, &m.Organization, &m.Reason, &m.Email, &m.Phone,
		&m.PreferredDatetime, &m.AssignedDatetime, &m.Status, &m.Comment,
		&m.Signature, &m.CreatedAt,
	)
}

// CreateMeeting inserts m and fills in the store-assigned creation
// timestamp. The caller sets everything else, including the id.
func (s *Store) CreateMeeting(ctx context.Context, m *model.Meeting) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO meetings
		   (id, name, organization, reason, email, phone,
		    preferred_datetime, assigned_datetime, status, comment, signature)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING created_at`,
		m.ID, m.Name, m.Organization, m.Reason, m.Email, m.Phone,
		m.PreferredDatetime, m.AssignedDatetime, m.Status, m.Comment, m.Signature,
	).Scan(&m.CreatedAt)
}

func (s *Store) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := scanMeeting(s.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id), m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeetings returns every meeting request, newest first.
func (s *Store) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+meetingColumns+` FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := scanMeeting(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMeeting writes the admin-mutable fields. Identity, requester
// fields and created_at never change after creation.
func (s *Store) UpdateMeeting(ctx context.Context, m *model.Meeting) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE meetings
		 SET comment=$1, signature=$2, status=$3, assigned_datetime=$4
		 WHERE id=$5`,
		m.Comment, m.Signature, m.Status, m.AssignedDatetime, m.ID,
	)
	return err
}

func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	return err
}

// ScheduledMeetingAt finds another scheduled meeting occupying exactly the
// given instant, skipping excludeID. Returns (nil, nil) when the slot is
// free. Exact equality only, not interval overlap.
func (s *Store) ScheduledMeetingAt(ctx context.Context, at time.Time, excludeID string) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := scanMeeting(s.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings
		 WHERE assigned_datetime = $1 AND status = 'scheduled' AND id != $2
		 LIMIT 1`, at, excludeID), m)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}
