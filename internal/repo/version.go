package repo

import (
	"NoteKeeper/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrStaleVersion возвращается при попытке записать в журнал версию,
// не превышающую текущий максимум для заметки.
var ErrStaleVersion = errors.New("version is not greater than the current maximum")

// VersionRepository — журнал версий заметки: только вставка и упорядоченное чтение.
// Записи неизменяемы; по отдельности никогда не удаляются (только каскадно вместе
// с заметкой, см. NoteRepository.Delete).
type VersionRepository interface {
	// NextVersion возвращает 1, если версий нет, иначе max(version)+1.
	NextVersion(ctx context.Context, noteID string) (int64, error)

	// Append вставляет снимок. Версия должна быть строго больше всех существующих.
	Append(ctx context.Context, v *model.NoteVersion) error

	// ListByNote возвращает версии заметки по убыванию номера.
	ListByNote(ctx context.Context, noteID string) ([]model.NoteVersion, error)

	// GetByID возвращает gorm.ErrRecordNotFound, если записи нет.
	GetByID(ctx context.Context, id string) (*model.NoteVersion, error)
}

type versionRepo struct {
	db *gorm.DB
}

// NewVersionRepository создаёт реализацию журнала версий.
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepo{db: db}
}

func (r *versionRepo) NextVersion(ctx context.Context, noteID string) (int64, error) {
	return nextVersionTx(r.db.WithContext(ctx), noteID)
}

func (r *versionRepo) Append(ctx context.Context, v *model.NoteVersion) error {
	return appendVersionTx(r.db.WithContext(ctx), v)
}

func (r *versionRepo) ListByNote(ctx context.Context, noteID string) ([]model.NoteVersion, error) {
	var versions []model.NoteVersion
	err := r.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("version DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *versionRepo) GetByID(ctx context.Context, id string) (*model.NoteVersion, error) {
	var v model.NoteVersion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// nextVersionTx вычисляет следующий номер версии внутри переданного tx.
// Вызов в той же транзакции, что и вставка, — обязательное условие
// атомарности (см. noteRepo.UpdateWithVersion).
func nextVersionTx(tx *gorm.DB, noteID string) (int64, error) {
	var maxVersion int64
	err := tx.Model(&model.NoteVersion{}).
		Where("note_id = ?", noteID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

// appendVersionTx вставляет снимок с защитной проверкой монотонности.
// Уникальный индекс (note_id, version) страхует от гонок, которые
// проверка в tx не видит.
func appendVersionTx(tx *gorm.DB, v *model.NoteVersion) error {
	next, err := nextVersionTx(tx, v.NoteID)
	if err != nil {
		return err
	}
	if v.Version < next {
		return fmt.Errorf("%w: note %s version %d", ErrStaleVersion, v.NoteID, v.Version)
	}
	return tx.Create(v).Error
}
