package database

import (
	"log"

	"github.com/practicahub/internship-api/model"
)

// AutoMigrate creates/updates tables for all models
func (s *GORMStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		// Offer lifecycle models
		&model.Offer{},
		&model.Application{},

		// Evaluation models
		&model.EvaluationRecord{},

		// Audit & logging models
		&model.CronJobLog{},
	)
}

// InitConstraints applies the constraints AutoMigrate cannot express.
// The partial unique index is what settles concurrent application-creation
// races: the loser of two simultaneous submissions for the same
// (student, offer) pair gets a unique violation instead of a second row.
func (s *GORMStore) InitConstraints() error {
	log.Println("Initializing PostgreSQL Database.", "Applying constraints")

	statements := []string{
		// at most one non-terminal application per (student, offer)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_one_active
			ON applications (student_id, offer_id)
			WHERE status IN ('pending', 'reviewing', 'accepted') AND deleted_at IS NULL;`,

		// evaluations reference the accepted application they assess
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_evaluation_records_internship') THEN
				ALTER TABLE evaluation_records
					ADD CONSTRAINT fk_evaluation_records_internship
					FOREIGN KEY (internship_id) REFERENCES applications(id);
			END IF;
		END $$;`,
	}

	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
