package versioning

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyforge/studyforge/models"
	"github.com/studyforge/studyforge/tenant"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.StudyNote{}, &models.StudyNoteVersion{},
		&models.KnowledgeItem{}, &models.KnowledgeVersion{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func createNote(t *testing.T, db *gorm.DB, title, content string) *models.StudyNote {
	t.Helper()
	ctx := tenant.WithTenant(context.Background(), 1)
	note := &models.StudyNote{StudySubjectID: 1, Title: title, Content: content}
	require.NoError(t, db.WithContext(ctx).Create(note).Error)
	require.NoError(t, RecordNoteVersion(db, note, ChangeInitial, "", ""))
	return note
}

func TestRecordNoteVersion_SnapshotsLiveContent(t *testing.T) {
	db := openTestDB(t)
	note := createNote(t, db, "Pointers", "v1")

	versions, err := NoteHistory(db, note.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, ChangeInitial, versions[0].ChangeType)
	assert.Equal(t, "Pointers", versions[0].Title)
	assert.Equal(t, "v1", versions[0].Content)
}

func TestNoteHistory_NewestFirstAndScopedToNote(t *testing.T) {
	db := openTestDB(t)
	note := createNote(t, db, "Pointers", "v1")
	other := createNote(t, db, "Slices", "unrelated")

	note.Content = "v2"
	require.NoError(t, db.Save(note).Error)
	require.NoError(t, RecordNoteVersion(db, note, ChangeManualEdit, "", ""))

	versions, err := NoteHistory(db, note.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, ChangeManualEdit, versions[0].ChangeType)
	assert.Equal(t, ChangeInitial, versions[1].ChangeType)

	otherVersions, err := NoteHistory(db, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherVersions, 1)
}

func TestRollbackNote_RestoresSnapshotAndAppends(t *testing.T) {
	db := openTestDB(t)
	note := createNote(t, db, "Pointers", "v1")

	initial, err := NoteHistory(db, note.ID)
	require.NoError(t, err)
	initialID := initial[0].ID

	note.Title = "Pointers, revised"
	note.Content = "v2"
	require.NoError(t, db.Save(note).Error)
	require.NoError(t, RecordNoteVersion(db, note, ChangeManualEdit, "", ""))

	require.NoError(t, RollbackNote(db, note, initialID))

	var live models.StudyNote
	require.NoError(t, db.First(&live, note.ID).Error)
	assert.Equal(t, "Pointers", live.Title)
	assert.Equal(t, "v1", live.Content)

	versions, err := NoteHistory(db, note.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, ChangeRollback, versions[0].ChangeType)
	assert.Equal(t, "v1", versions[0].Content)
}

func TestRollbackNote_ForeignVersionFailsAndLeavesNoteUntouched(t *testing.T) {
	db := openTestDB(t)
	note := createNote(t, db, "Pointers", "v1")
	other := createNote(t, db, "Slices", "other content")

	otherVersions, err := NoteHistory(db, other.ID)
	require.NoError(t, err)

	err = RollbackNote(db, note, otherVersions[0].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	var live models.StudyNote
	require.NoError(t, db.First(&live, note.ID).Error)
	assert.Equal(t, "v1", live.Content)

	versions, err := NoteHistory(db, note.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestRollbackKnowledgeItem(t *testing.T) {
	db := openTestDB(t)
	ctx := tenant.WithTenant(context.Background(), 1)

	item := &models.KnowledgeItem{MindMapID: 1, Title: "Goroutines", Content: "v1"}
	require.NoError(t, db.WithContext(ctx).Create(item).Error)
	require.NoError(t, RecordKnowledgeVersion(db, item, ChangeInitial, "", ""))

	history, err := KnowledgeHistory(db, item.ID)
	require.NoError(t, err)
	initialID := history[0].ID

	item.Content = "v2 from proposal"
	require.NoError(t, db.Save(item).Error)
	require.NoError(t, RecordKnowledgeVersion(db, item, ChangeProposal, "prop-123", "applied suggestion"))

	history, err = KnowledgeHistory(db, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "prop-123", history[0].ProposalID)
	assert.Equal(t, "applied suggestion", history[0].ChangeSummary)

	require.NoError(t, RollbackKnowledgeItem(db, item, initialID))

	var live models.KnowledgeItem
	require.NoError(t, db.First(&live, item.ID).Error)
	assert.Equal(t, "v1", live.Content)

	history, err = KnowledgeHistory(db, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, ChangeRollback, history[0].ChangeType)
}
