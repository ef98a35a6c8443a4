package postgres

import (
	"context"
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
	var phone *string
	if inv.Phone != "" {
		phone = &inv.Phone
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID,
		inv.OrgID,
		inv.Name,
		inv.Email,
		phone,
		inv.Code,
		string(inv.Status),
		inv.InvitedBy,
		inv.CreatedAt.UTC(),
		inv.ExpiresAt.UTC(),
		inv.AcceptedAt,
		inv.CancelledAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, orgID, id string) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE id = $1 AND org_id = $2`,
		id, orgID,
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE code = $1`,
		code,
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitationsByOrg(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+invitationColumns+`
		  FROM invitations
		 WHERE org_id = $1
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
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM invitations WHERE code = $1)`,
		code,
	).Scan(&exists)
	return exists, err
}

func (r *invitationsRepo) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invitations
		   SET status = 'accepted', accepted_at = $1
		 WHERE id = $2 AND status = 'pending' AND expires_at > $1`,
		at.UTC(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitationsRepo) MarkCancelled(ctx context.Context, orgID, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invitations
		   SET status = 'cancelled', cancelled_at = $1
		 WHERE id = $2 AND org_id = $3 AND status = 'pending' AND expires_at > $1`,
		at.UTC(), id, orgID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, orgID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM invitations WHERE id = $1 AND org_id = $2`,
		id, orgID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitationsRepo) DeleteExpired(ctx context.Context, orgID string, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM invitations
		 WHERE org_id = $1 AND status = 'pending' AND expires_at < $2`,
		orgID, now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invitationsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM invitations
		 WHERE status = 'pending' AND expires_at < $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv    domain.Invitation
		status string
		phone  *string
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
		&inv.AcceptedAt,
		&inv.CancelledAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Status = domain.InvitationStatus(status)
	if phone != nil {
		inv.Phone = *phone
	}
	return inv, nil
}
