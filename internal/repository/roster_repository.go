package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// RosterRepository reads the pre-registered participant list from the
// remote source. The roster is read-only within a run.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListAll returns every participant ordered by name.
func (r *RosterRepository) ListAll(ctx context.Context) ([]models.Participant, error) {
	const query = `SELECT name, email, category, verification_id FROM participants ORDER BY name ASC`
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return participants, nil
}
