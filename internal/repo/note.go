package repo

import (
	"NoteKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// NoteRepository — контракт доступа к заметкам. Мутации, которые меняют
// строку заметки и журнал версий, выполняются одной транзакцией.
type NoteRepository interface {
	// Create вставляет заметку вместе с приложенными версиями (обычно v1)
	// одной атомарной операцией.
	Create(ctx context.Context, note *model.Note) error

	// GetByID возвращает заметку с владельцем и версиями по убыванию номера.
	GetByID(ctx context.Context, id string) (*model.Note, error)

	// List возвращает все заметки с владельцами, новые сверху. Без версий.
	List(ctx context.Context) ([]model.Note, error)

	// CountVersions возвращает количество версий по каждой заметке.
	CountVersions(ctx context.Context) (map[string]int64, error)

	// UpdateWithVersion атомарно: вычисляет следующий номер версии,
	// применяет updates к строке заметки и дописывает entry в журнал.
	// Возвращает присвоенный номер версии.
	UpdateWithVersion(ctx context.Context, noteID string, updates map[string]any, entry *model.NoteVersion) (int64, error)

	// Delete удаляет заметку и каскадно все её версии одной транзакцией.
	Delete(ctx context.Context, noteID string) error
}

type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository создаёт реализацию репозитория для Note.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, note *model.Note) error {
	// gorm сохраняет ассоциации (Versions) в той же транзакции, что и заметку
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version DESC")
		}).
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) List(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) CountVersions(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		NoteID string
		Cnt    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.NoteVersion{}).
		Select("note_id, COUNT(*) AS cnt").
		Group("note_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.NoteID] = row.Cnt
	}
	return counts, nil
}

func (r *noteRepo) UpdateWithVersion(ctx context.Context, noteID string, updates map[string]any, entry *model.NoteVersion) (int64, error) {
	var assigned int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextVersionTx(tx, noteID)
		if err != nil {
			return err
		}

		res := tx.Model(&model.Note{}).Where("id = ?", noteID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry.NoteID = noteID
		entry.Version = next
		if err := appendVersionTx(tx, entry); err != nil {
			return err
		}
		assigned = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

func (r *noteRepo) Delete(ctx context.Context, noteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// явное каскадное удаление: не полагаемся на внешние ключи SQLite
		if err := tx.Where("note_id = ?", noteID).Delete(&model.NoteVersion{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", noteID).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
