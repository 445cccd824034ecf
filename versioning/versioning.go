// Package versioning keeps the append-only edit history of study notes
// and knowledge items. Every path that mutates live content appends a
// version row in the same transaction, so the live row always mirrors the
// newest version. History only grows; rollback appends a new entry.
package versioning

import (
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// Change types recorded in version rows.
const (
	ChangeInitial    = "INITIAL"
	ChangeManualEdit = "MANUAL_EDIT"
	ChangeProposal   = "AGENT_PROPOSAL"
	ChangeRollback   = "ROLLBACK"
)

// RecordNoteVersion appends a snapshot of a study note. tx must be the
// transaction performing the live write.
func RecordNoteVersion(tx *gorm.DB, note *models.StudyNote, changeType, proposalID, summary string) error {
	return tx.Create(&models.StudyNoteVersion{
		StudyNoteID:   note.ID,
		Title:         note.Title,
		Content:       note.Content,
		ChangeType:    changeType,
		ProposalID:    proposalID,
		ChangeSummary: summary,
	}).Error
}

// RecordKnowledgeVersion appends a snapshot of a knowledge item.
func RecordKnowledgeVersion(tx *gorm.DB, item *models.KnowledgeItem, changeType, proposalID, summary string) error {
	return tx.Create(&models.KnowledgeVersion{
		KnowledgeItemID: item.ID,
		Title:           item.Title,
		Content:         item.Content,
		ChangeType:      changeType,
		ProposalID:      proposalID,
		ChangeSummary:   summary,
	}).Error
}

// NoteHistory returns a note's versions newest-first.
func NoteHistory(db *gorm.DB, noteID uint) ([]models.StudyNoteVersion, error) {
	var versions []models.StudyNoteVersion
	err := db.Where("study_note_id = ?", noteID).Order("created_at DESC, id DESC").Find(&versions).Error
	return versions, err
}

// KnowledgeHistory returns a knowledge item's versions newest-first.
func KnowledgeHistory(db *gorm.DB, itemID uint) ([]models.KnowledgeVersion, error) {
	var versions []models.KnowledgeVersion
	err := db.Where("knowledge_item_id = ?", itemID).Order("created_at DESC, id DESC").Find(&versions).Error
	return versions, err
}

// RollbackNote copies the target snapshot onto the live note and appends
// a ROLLBACK version, all in one transaction. A version id that does not
// belong to the note fails with NotFound and leaves the note untouched.
func RollbackNote(db *gorm.DB, note *models.StudyNote, versionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var target models.StudyNoteVersion
		if err := tx.Where("id = ? AND study_note_id = ?", versionID, note.ID).First(&target).Error; err != nil {
			return errs.FromDB(err, "note version")
		}
		note.Title = target.Title
		note.Content = target.Content
		if err := tx.Model(note).Updates(map[string]any{"title": target.Title, "content": target.Content}).Error; err != nil {
			return err
		}
		return RecordNoteVersion(tx, note, ChangeRollback, "", "")
	})
}

// RollbackKnowledgeItem is the knowledge-item counterpart of RollbackNote.
func RollbackKnowledgeItem(db *gorm.DB, item *models.KnowledgeItem, versionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var target models.KnowledgeVersion
		if err := tx.Where("id = ? AND knowledge_item_id = ?", versionID, item.ID).First(&target).Error; err != nil {
			return errs.FromDB(err, "knowledge version")
		}
		item.Title = target.Title
		item.Content = target.Content
		if err := tx.Model(item).Updates(map[string]any{"title": target.Title, "content": target.Content}).Error; err != nil {
			return err
		}
		return RecordKnowledgeVersion(tx, item, ChangeRollback, "", "")
	})
}
