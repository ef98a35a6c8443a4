package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/classforge/enroll/internal/enroll/domain"
	"github.com/classforge/enroll/internal/enroll/store"
)

const invitationColumns = `id, org_id, name, email, phone, code, status, invited_by,
	created_at, expires_at, accepted_at, cancelled_at`

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.OrgID,
		inv.Name,
		inv.Email,
		mapStringNull(inv.Phone),
		inv.Code,
		string(inv.Status),
		inv.InvitedBy,
		inv.CreatedAt.UTC(),
		inv.ExpiresAt.UTC(),
		mapOptionalTime(inv.AcceptedAt),
		mapOptionalTime(inv.CancelledAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, orgID, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE id = ? AND org_id = ?`,
		id, orgID,
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE code = ?`,
		code,
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitationsByOrg(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE org_id = ?
		 ORDER BY created_at DESC, id DESC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) CodeInUse(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM invitations WHERE code = ?)`,
		code,
	).Scan(&exists)
	return exists, err
}

func (r *invitationsRepo) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		   SET status = 'accepted', accepted_at = ?
		 WHERE id = ? AND status = 'pending' AND expires_at > ?`,
		at.UTC(), id, at.UTC(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitationsRepo) MarkCancelled(ctx context.Context, orgID, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		   SET status = 'cancelled', cancelled_at = ?
		 WHERE id = ? AND org_id = ? AND status = 'pending' AND expires_at > ?`,
		at.UTC(), id, orgID, at.UTC(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, orgID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invitations WHERE id = ? AND org_id = ?`,
		id, orgID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitationsRepo) DeleteExpired(ctx context.Context, orgID string, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invitations
		 WHERE org_id = ? AND status = 'pending' AND expires_at < ?`,
		orgID, now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *invitationsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invitations
		 WHERE status = 'pending' AND expires_at < ?`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// requireRow maps a zero-row conditional update to store.ErrConflict.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv         domain.Invitation
		status      string
		phone       sql.NullString
		acceptedAt  sql.NullTime
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&inv.ID,
		&inv.OrgID,
		&inv.Name,
		&inv.Email,
		&phone,
		&inv.Code,
		&status,
		&inv.InvitedBy,
		&inv.CreatedAt,
		&inv.ExpiresAt,
		&acceptedAt,
		&cancelledAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Status = domain.InvitationStatus(status)
	inv.Phone = mapNullString(phone)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	inv.CancelledAt = mapNullTimePtr(cancelledAt)
	return inv, nil
}
