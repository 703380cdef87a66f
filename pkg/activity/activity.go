package activity

import (
	"fmt"
	"log"

	"github.com/annisazulfa99/inventaris/pkg/models"
)

// Recorder persists activity entries. Failures must never fail the
// action being logged.
type Recorder interface {
	PersistEntry(entry models.ActivityLog) error
}

type Logger struct {
	r Recorder
}

func NewLogger(r Recorder) *Logger {
	return &Logger{r: r}
}

func (l *Logger) Log(username, role, aktifitas, keterangan string) {
	entry := models.ActivityLog{
		Username:   username,
		UserRole:   role,
		Aktifitas:  aktifitas,
		Keterangan: keterangan,
	}

	if err := l.r.PersistEntry(entry); err != nil {
		log.Printf("Unable to create activity log entry for %s: %v", username, err)
		return
	}
}

func (l *Logger) LogLogin(username, role string) {
	l.Log(username, role, "LOGIN", "Login ke sistem")
}

func (l *Logger) LogCreate(username, role, entity, desc string) {
	l.Log(username, role, "CREATE_"+entity, fmt.Sprintf("Menambah %s: %s", entity, desc))
}

func (l *Logger) LogUpdate(username, role, entity, desc string) {
	l.Log(username, role, "UPDATE_"+entity, fmt.Sprintf("Mengubah %s: %s", entity, desc))
}

func (l *Logger) LogDelete(username, role, entity, desc string) {
	l.Log(username, role, "DELETE_"+entity, fmt.Sprintf("Menghapus %s: %s", entity, desc))
}
