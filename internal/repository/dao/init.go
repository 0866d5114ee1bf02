package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Competition{},
		&Team{},
		&Membership{},
		&Submission{},
		&ScoreEntry{},
		&LeaderboardEntry{},
		&Certificate{},
	)
	if err != nil {
		return err
	}

	// Partial unique index: a user holds at most one ACCEPTED membership per
	// competition. AutoMigrate cannot express the WHERE clause.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uni_memberships_active_user
		ON memberships (competition_id, user_id) WHERE status = 'ACCEPTED'`).Error
}
