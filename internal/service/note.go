package service

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Имена событий, рассылаемых подключённым клиентам.
const (
	EventNoteCreated = "note_created"
	EventNoteUpdated = "note_updated"
	EventNoteDeleted = "note_deleted"
)

// Минимальная длина пароля заметки.
const minNotePasswordLen = 4

// EventSink принимает события об изменениях заметок. Доставка best-effort:
// Emit не должен блокировать и не возвращает ошибку.
type EventSink interface {
	Emit(event string, payload any)
}

// SecretPatch — трёхзначная семантика поля пароля при обновлении:
// поле отсутствует — без изменений; явный null — пароль снимается;
// строка длиной >=4 — пароль устанавливается/меняется.
type SecretPatch struct {
	Set   bool   // поле присутствовало в запросе
	Clear bool   // явный null
	Value string // новое значение, если Set && !Clear
}

// CreateNoteInput — вход создания заметки. Пустой Password означает
// отсутствие пароля.
type CreateNoteInput struct {
	Title       string
	Description string
	Password    string
}

// UpdateNoteInput — частичное обновление. nil-указатель оставляет прежнее
// значение; присутствующая пустая строка — ошибка валидации, а не «оставить
// как было».
type UpdateNoteInput struct {
	Title       *string
	Description *string
	Secret      SecretPatch
}

// noteLocks — взаимное исключение по id заметки. Мутации разных заметок
// не конкурируют; две мутации одной заметки сериализуются, чтобы расчёт
// следующей версии и запись в журнал не разъехались.
type noteLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *noteLocks) lock(id string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	nm, ok := l.m[id]
	if !ok {
		nm = &sync.Mutex{}
		l.m[id] = nm
	}
	l.mu.Unlock()

	nm.Lock()
	return nm.Unlock
}

func (l *noteLocks) forget(id string) {
	l.mu.Lock()
	delete(l.m, id)
	l.mu.Unlock()
}

// NoteService — движок мутаций заметок: создание, обновление, удаление,
// откат к версии, плюс чтение через Access Guard.
type NoteService struct {
	notes    repo.NoteRepository
	versions repo.VersionRepository
	sink     EventSink
	logger   *zap.SugaredLogger
	locks    noteLocks
}

// NewNoteService создаёт сервис заметок. sink может быть nil (события не шлются).
func NewNoteService(notes repo.NoteRepository, versions repo.VersionRepository, sink EventSink, logger *zap.SugaredLogger) *NoteService {
	return &NoteService{notes: notes, versions: versions, sink: sink, logger: logger}
}

// notify шлёт событие и никогда не влияет на результат мутации.
func (s *NoteService) notify(event string, payload any) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(event, payload)
}

// Create создаёт заметку вместе с первой записью журнала (version 1).
func (s *NoteService) Create(ctx context.Context, ownerID int64, in CreateNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	var password *string
	if in.Password != "" {
		if len(in.Password) < minNotePasswordLen {
			return nil, fmt.Errorf("%w: note password must be at least %d characters", ErrValidation, minNotePasswordLen)
		}
		p := in.Password
		password = &p
	}

	note := &model.Note{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Password:    password,
		UserID:      ownerID,
		Versions: []model.NoteVersion{{
			ID:          uuid.NewString(),
			Title:       title,
			Description: description,
			Version:     1,
		}},
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	created, err := s.notes.GetByID(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("create note: reload: %w", err)
	}

	s.notify(EventNoteCreated, map[string]any{"note": ProjectNote(created, AccessFull)})
	return created, nil
}

// View возвращает проекцию заметки для читателя. SecretRequired и
// SecretMismatch — не ошибки, а обычные исходы с урезанной проекцией.
func (s *NoteService) View(ctx context.Context, noteID string, suppliedPassword *string) (NoteView, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NoteView{}, ErrNoteNotFound
		}
		return NoteView{}, fmt.Errorf("view note: %w", err)
	}

	access := ResolveAccess(note.Password, suppliedPassword)
	return NoteView{Note: ProjectNote(note, access), Access: access}, nil
}

// List возвращает проекцию всех заметок для публичного списка.
func (s *NoteService) List(ctx context.Context) ([]NoteDTO, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	counts, err := s.notes.CountVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: counts: %w", err)
	}
	return ProjectList(notes, counts), nil
}

// Versions возвращает журнал заметки. Для защищённой заметки нужен пароль:
// без него или с неверным история не выдаётся — возвращается пустой список
// и соответствующий вид доступа.
func (s *NoteService) Versions(ctx context.Context, noteID string, suppliedPassword *string) ([]VersionDTO, Access, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AccessFull, ErrNoteNotFound
		}
		return nil, AccessFull, fmt.Errorf("note versions: %w", err)
	}

	access := ResolveAccess(note.Password, suppliedPassword)
	if access != AccessFull {
		return nil, access, nil
	}

	versions, err := s.versions.ListByNote(ctx, noteID)
	if err != nil {
		return nil, access, fmt.Errorf("note versions: %w", err)
	}
	return versionDTOs(versions), access, nil
}

// Update применяет частичное обновление и дописывает новую версию.
// Владение проверяется до входа в критическую секцию журнала.
func (s *NoteService) Update(ctx context.Context, noteID string, actorID int64, in UpdateNoteInput) (*model.Note, error) {
	unlock := s.locks.lock(noteID)
	defer unlock()

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	if note.UserID != actorID {
		return nil, ErrForbidden
	}

	title := note.Title
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		title = t
	}
	description := note.Description
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
		}
		description = d
	}

	updates := map[string]any{"title": title, "description": description}
	if in.Secret.Set {
		if in.Secret.Clear {
			updates["password"] = nil
		} else if len(in.Secret.Value) < minNotePasswordLen {
			return nil, fmt.Errorf("%w: note password must be at least %d characters, or null to remove", ErrValidation, minNotePasswordLen)
		} else {
			updates["password"] = in.Secret.Value
		}
	}

	entry := &model.NoteVersion{ID: uuid.NewString(), Title: title, Description: description}
	if _, err := s.notes.UpdateWithVersion(ctx, noteID, updates, entry); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	updated, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("update note: reload: %w", err)
	}

	s.notify(EventNoteUpdated, map[string]any{"note": ProjectNote(updated, AccessFull)})
	return updated, nil
}

// Delete удаляет заметку вместе со всем журналом версий.
func (s *NoteService) Delete(ctx context.Context, noteID string, actorID int64) error {
	unlock := s.locks.lock(noteID)
	defer unlock()

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	if note.UserID != actorID {
		return ErrForbidden
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.locks.forget(noteID)

	s.notify(EventNoteDeleted, map[string]any{"note_id": noteID, "user_id": note.UserID})
	return nil
}

// Revert копирует title/description целевой версии в строку заметки и
// дописывает НОВУЮ версию с этим содержимым. История только вперёд:
// откат к версии 2 при текущей 5 даёт версию 6, версии 3–5 остаются.
// Пароль заметки откат не трогает. Откат к текущей последней версии
// допустим — содержимое не изменится, но запись в журнале появится.
func (s *NoteService) Revert(ctx context.Context, noteID string, actorID int64, versionID string) (*model.Note, error) {
	unlock := s.locks.lock(noteID)
	defer unlock()

	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("revert note: %w", err)
	}
	if note.UserID != actorID {
		return nil, ErrForbidden
	}

	target, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("revert note: %w", err)
	}
	if target.NoteID != noteID {
		return nil, ErrVersionNotFound
	}

	updates := map[string]any{"title": target.Title, "description": target.Description}
	entry := &model.NoteVersion{ID: uuid.NewString(), Title: target.Title, Description: target.Description}
	if _, err := s.notes.UpdateWithVersion(ctx, noteID, updates, entry); err != nil {
		return nil, fmt.Errorf("revert note: %w", err)
	}

	reverted, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("revert note: reload: %w", err)
	}

	// для подписчиков откат — обычное обновление
	s.notify(EventNoteUpdated, map[string]any{"note": ProjectNote(reverted, AccessFull)})
	return reverted, nil
}
