package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studyforge/studyforge/models"
)

// Open opens the sqlite database, creating the parent directory when
// needed. Foreign keys are enabled so parent deletes cascade.
func Open(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = filepath.Join("data", "studyforge.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	return db, nil
}

// Migrate creates the schema and seeds the default tenant.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Workspace{},
		&models.Project{},
		&models.Milestone{},
		&models.DecisionRecord{},
		&models.StudySubject{},
		&models.StudyNote{},
		&models.StudyNoteVersion{},
		&models.Quiz{},
		&models.StudySession{},
		&models.StudyResource{},
		&models.Roadmap{},
		&models.RoadmapStep{},
		&models.KanbanBoard{},
		&models.KanbanColumn{},
		&models.KanbanTask{},
		&models.MindMap{},
		&models.KnowledgeItem{},
		&models.KnowledgeVersion{},
		&models.Document{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return seedDefaultTenant(db)
}

func seedDefaultTenant(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Tenant{}).Where("id = ?", models.DefaultTenantID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.Tenant{
		ID:       models.DefaultTenantID,
		Name:     "Default",
		Slug:     "default",
		Active:   true,
		Plan:     "free",
		MaxUsers: 5,
	}).Error
}
