package models

import "time"

const (
	FileStatusUploaded = "已上传"
	FileStatusPending  = "待处理"

	ParseStatusPending = "pending"
)

// ResumeFile is the original document behind a résumé. FilePath holds the
// public URL of the stored object.
type ResumeFile struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"`

	UploadedBy  string `gorm:"column:uploaded_by;type:text" json:"uploaded_by"`
	Status      string `gorm:"column:status;type:text" json:"status"`
	ParseStatus string `gorm:"column:parse_status;type:text" json:"parse_status"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (ResumeFile) TableName() string { return "resume_files" }
