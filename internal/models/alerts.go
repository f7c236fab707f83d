package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"whistleline/pkg/errors"
	"whistleline/pkg/logger"
	stores "whistleline/pkg/storage"

	"go.uber.org/zap"
)

// AttachmentCategory is the storage namespace for alert attachments.
const AttachmentCategory = "alert-attachments"

// MaxAttachmentSize bounds a single alert attachment.
const MaxAttachmentSize = 10 << 20

// contentLimit is the listing prefix length derived from the description.
const contentLimit = 500

type AlertStatus string

const (
	AlertStatusPending   AlertStatus = "pending"
	AlertStatusPublished AlertStatus = "published"
	AlertStatusRejected  AlertStatus = "rejected"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case AlertStatusPending, AlertStatusPublished, AlertStatusRejected:
		return true
	}
	return false
}

// ParseAlertStatus validates a moderation target status.
func ParseAlertStatus(raw string) (AlertStatus, error) {
	s := AlertStatus(raw)
	if !s.Valid() {
		return "", errors.WithCode(errors.CodeInvalidStatus, "invalid status, must be one of: pending, published, rejected")
	}
	return s, nil
}

// ParseStatusFilter validates the optional list filter.
func ParseStatusFilter(raw string) (AlertStatus, error) {
	s := AlertStatus(raw)
	if !s.Valid() {
		return "", errors.WithCode(errors.CodeInvalidFilter, "invalid status filter, must be one of: pending, published, rejected")
	}
	return s, nil
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

type ContactKind int

const (
	ContactEmail ContactKind = iota + 1
	ContactPhone
)

// ReporterContact is the submitted contact resolved to exactly one
// channel at the submission boundary.
type ReporterContact struct {
	Kind  ContactKind
	Value string
}

// AlertSubmission is a validated alert creation request.
type AlertSubmission struct {
	Title       string
	Description string
	Category    string
	Urgency     Urgency
	Evidence    string
	Anonymous   bool
	Name        string
	Contact     *ReporterContact
}

// RequestMeta carries provenance captured at submission. Never exposed
// in public responses.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Alert struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Title         string       `json:"title" gorm:"size:255"`
	Content       string       `json:"content" gorm:"size:500"`
	Description   string       `json:"description" gorm:"type:text"`
	Category      string       `json:"category,omitempty" gorm:"size:100"`
	Urgency       Urgency      `json:"urgency" gorm:"size:20"`
	Evidence      string       `json:"evidence,omitempty" gorm:"size:1000"`
	IsAnonymous   bool         `json:"is_anonymous"`
	ReporterName  *string      `json:"reporter_name,omitempty" gorm:"size:100"`
	ReporterEmail *string      `json:"reporter_email,omitempty" gorm:"size:255"`
	ReporterPhone *string      `json:"reporter_phone,omitempty" gorm:"size:20"`
	IPAddress     string       `json:"-" gorm:"size:45"`
	UserAgent     string       `json:"-" gorm:"size:512"`
	Status        AlertStatus  `json:"status" gorm:"size:20;index"`
	ProcessedBy   *uint        `json:"processed_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	PublishedAt   *time.Time   `json:"published_at,omitempty"`
	Attachments   []Attachment `json:"attachments" gorm:"foreignKey:AlertID"`

	// Resolved from ProcessedBy for display, not a column.
	ProcessedByName string `json:"processed_by_name,omitempty" gorm:"-"`
}

type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AlertID      uint      `json:"alert_id" gorm:"index"`
	OriginalName string    `json:"original_name" gorm:"size:255"`
	FilePath     string    `json:"file_path" gorm:"size:512"`
	MimeType     string    `json:"mime_type" gorm:"size:128"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Attachment) TableName() string { return "alert_attachments" }

// Reference derives the human-readable token shown to the reporter.
// Ids above six digits are never truncated.
func (a *Alert) Reference() string {
	return fmt.Sprintf("ALERT-%06d", a.ID)
}

// CreateAlert inserts the alert and persists its attachments as one
// unit. The alert row, the attachment rows and the file writes either
// all take effect or none do; files written before a failure are
// removed best-effort.
func CreateAlert(ctx context.Context, db *gorm.DB, store stores.Store, sub *AlertSubmission, uploads []stores.Upload, meta RequestMeta) (*Alert, error) {
	alert := &Alert{
		Title:       sub.Title,
		Content:     contentPrefix(sub.Description),
		Description: sub.Description,
		Category:    sub.Category,
		Urgency:     sub.Urgency,
		Evidence:    sub.Evidence,
		IsAnonymous: sub.Anonymous,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Status:      AlertStatusPending,
	}
	if !sub.Anonymous {
		alert.ReporterName = &sub.Name
		if sub.Contact != nil {
			switch sub.Contact.Kind {
			case ContactEmail:
				alert.ReporterEmail = &sub.Contact.Value
			case ContactPhone:
				alert.ReporterPhone = &sub.Contact.Value
			}
		}
	}

	var savedPaths []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(alert).Error; err != nil {
			return errors.Wrap(errors.CodePersistence, err, "insert alert")
		}
		for _, up := range uploads {
			stored, err := store.Save(ctx, AttachmentCategory, up, stores.SaveOptions{MaxSize: MaxAttachmentSize})
			if err != nil {
				return err
			}
			savedPaths = append(savedPaths, stored.Path)

			att := Attachment{
				AlertID:      alert.ID,
				OriginalName: stored.OriginalName,
				FilePath:     stored.Path,
				MimeType:     stored.MimeType,
				FileSize:     stored.Size,
			}
			if err := tx.Create(&att).Error; err != nil {
				return errors.Wrap(errors.CodePersistence, err, "insert attachment")
			}
			alert.Attachments = append(alert.Attachments, att)
		}
		return nil
	})
	if err != nil {
		for _, p := range savedPaths {
			if rerr := store.Remove(ctx, p); rerr != nil {
				logger.Warn("cleanup of attachment after failed submission",
					zap.String("path", p), zap.Error(rerr))
			}
		}
		return nil, err
	}
	if alert.Attachments == nil {
		alert.Attachments = []Attachment{}
	}
	return alert, nil
}

// ListAlerts returns alerts newest first, optionally filtered by
// status, with attachments embedded and moderator names resolved.
func ListAlerts(db *gorm.DB, status *AlertStatus) ([]Alert, error) {
	q := db.Model(&Alert{}).Preload("Attachments").Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var alerts []Alert
	if err := q.Find(&alerts).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "list alerts")
	}
	for i := range alerts {
		if alerts[i].Attachments == nil {
			alerts[i].Attachments = []Attachment{}
		}
	}
	if err := resolveModeratorNames(db, alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetAlert loads one alert with attachments and moderator name.
func GetAlert(db *gorm.DB, id uint) (*Alert, error) {
	var alert Alert
	err := db.Preload("Attachments").First(&alert, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.WithCode(errors.CodeNotFound, "alert not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "load alert")
	}
	if alert.Attachments == nil {
		alert.Attachments = []Attachment{}
	}
	one := []Alert{alert}
	if err := resolveModeratorNames(db, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// UpdateAlertStatus moves an alert to the given status. Entering
// "published" stamps published_at once; "rejected" never touches it.
// The acting admin is recorded as the moderator when provided.
func UpdateAlertStatus(db *gorm.DB, id uint, status AlertStatus, processedBy *uint) (*Alert, error) {
	var alert Alert
	err := db.First(&alert, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.WithCode(errors.CodeNotFound, "alert not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "load alert")
	}

	updates := map[string]interface{}{"status": status}
	if status == AlertStatusPublished && alert.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}
	if processedBy != nil {
		updates["processed_by"] = *processedBy
	}
	if err := db.Model(&alert).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "update alert status")
	}
	return GetAlert(db, id)
}

// DeleteAlert removes the alert row only. Attachment rows and files are
// left for the orphan sweep; see internal/sweeper.
func DeleteAlert(db *gorm.DB, id uint) error {
	res := db.Delete(&Alert{}, id)
	if res.Error != nil {
		return errors.Wrap(errors.CodePersistence, res.Error, "delete alert")
	}
	if res.RowsAffected == 0 {
		return errors.WithCode(errors.CodeNotFound, "alert not found")
	}
	return nil
}

func resolveModeratorNames(db *gorm.DB, alerts []Alert) error {
	ids := make([]uint, 0, len(alerts))
	seen := make(map[uint]bool)
	for i := range alerts {
		if alerts[i].ProcessedBy != nil && !seen[*alerts[i].ProcessedBy] {
			seen[*alerts[i].ProcessedBy] = true
			ids = append(ids, *alerts[i].ProcessedBy)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var admins []Admin
	if err := db.Where("id IN ?", ids).Find(&admins).Error; err != nil {
		return errors.Wrap(errors.CodePersistence, err, "resolve moderator names")
	}
	names := make(map[uint]string, len(admins))
	for _, a := range admins {
		names[a.ID] = a.Name
	}
	for i := range alerts {
		if alerts[i].ProcessedBy != nil {
			alerts[i].ProcessedByName = names[*alerts[i].ProcessedBy]
		}
	}
	return nil
}

func contentPrefix(description string) string {
	runes := []rune(description)
	if len(runes) > contentLimit {
		return string(runes[:contentLimit])
	}
	return description
}
