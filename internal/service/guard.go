package service

import (
	"NoteKeeper/internal/model"
	"time"
)

// Access — результат проверки доступа к защищённой заметке.
type Access int

const (
	// AccessFull — заметка публичная либо пароль совпал: видно всё.
	AccessFull Access = iota
	// AccessSecretRequired — заметка защищена, пароль не передан.
	AccessSecretRequired
	// AccessSecretMismatch — пароль передан, но не совпал.
	// От AccessSecretRequired отличается только сообщением: содержимое
	// скрывается одинаково.
	AccessSecretMismatch
)

// ProtectedPlaceholder подставляется вместо описания защищённой заметки в списке.
const ProtectedPlaceholder = "This note is password protected. Provide password to view."

// ResolveAccess решает, что видно читателю заметки. Единственное место,
// где сравниваются пароли заметок: простое строгое равенство строк,
// с учётом регистра, без хеширования.
func ResolveAccess(stored, supplied *string) Access {
	if stored == nil || *stored == "" {
		return AccessFull
	}
	if supplied == nil || *supplied == "" {
		return AccessSecretRequired
	}
	if *supplied != *stored {
		return AccessSecretMismatch
	}
	return AccessFull
}

// OwnerDTO — краткая карточка владельца в ответах.
type OwnerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VersionDTO — запись журнала версий в ответах.
type VersionDTO struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"note_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// NoteDTO — проекция заметки для чтения. Для защищённой заметки без
// пароля описание, версии и сам пароль не сериализуются вовсе.
type NoteDTO struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	IsProtected  bool         `json:"is_protected"`
	UserID       int64        `json:"user_id"`
	User         *OwnerDTO    `json:"user,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Versions     []VersionDTO `json:"versions,omitempty"`
	VersionCount int64        `json:"version_count,omitempty"`
}

// NoteView — проекция плюс вид доступа, по которому хендлер выбирает
// статус и сообщение.
type NoteView struct {
	Note   NoteDTO
	Access Access
}

func ownerDTO(u *model.User) *OwnerDTO {
	if u == nil {
		return nil
	}
	return &OwnerDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func versionDTOs(versions []model.NoteVersion) []VersionDTO {
	out := make([]VersionDTO, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionDTO{
			ID:          v.ID,
			NoteID:      v.NoteID,
			Title:       v.Title,
			Description: v.Description,
			Version:     v.Version,
			CreatedAt:   v.CreatedAt,
		})
	}
	return out
}

// ProjectNote строит видимую проекцию заметки для данного вида доступа.
// Побочных эффектов нет: чистая функция от входов.
func ProjectNote(n *model.Note, access Access) NoteDTO {
	dto := NoteDTO{
		ID:          n.ID,
		Title:       n.Title,
		IsProtected: n.Protected(),
		UserID:      n.UserID,
		User:        ownerDTO(n.User),
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
	if access == AccessFull {
		dto.Description = n.Description
		dto.Versions = versionDTOs(n.Versions)
	}
	return dto
}

// ProjectList строит проекцию списка: показываются все заметки, но у
// защищённых описание заменяется плейсхолдером; журнал в список не
// входит — только количество версий.
func ProjectList(notes []model.Note, versionCounts map[string]int64) []NoteDTO {
	out := make([]NoteDTO, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		dto := NoteDTO{
			ID:           n.ID,
			Title:        n.Title,
			Description:  n.Description,
			IsProtected:  n.Protected(),
			UserID:       n.UserID,
			User:         ownerDTO(n.User),
			CreatedAt:    n.CreatedAt,
			UpdatedAt:    n.UpdatedAt,
			VersionCount: versionCounts[n.ID],
		}
		if dto.IsProtected {
			dto.Description = ProtectedPlaceholder
		}
		out = append(out, dto)
	}
	return out
}
