package store

import (
	"context"
	"fmt"

	"github.com/filehost/filehost/internal/config"
	"github.com/filehost/filehost/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type userRow struct {
	Username         string    `gorm:"type:varchar(255);primaryKey"`
	Position         int       `gorm:"not null;index"`
	Password         string    `gorm:"type:text;not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ResetToken       *string   `gorm:"type:varchar(64);index"`
	ResetTokenExpiry *int64    `gorm:"column:reset_token_expiry"`
	Files            []fileRow `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
}

func (userRow) TableName() string { return "users" }

type fileRow struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(255);not null;index"`
	Position     int    `gorm:"not null"`
	Filename     string `gorm:"type:varchar(512);not null;index"`
	Originalname string `gorm:"type:varchar(512);not null"`
	Shared       bool   `gorm:"not null"`
}

func (fileRow) TableName() string { return "user_files" }

// SQLRepository keeps the collection in two tables and replaces both inside a
// single transaction on every Save.
type SQLRepository struct {
	db *gorm.DB
}

// OpenPostgres connects with the DB_* settings and migrates the schema.
func OpenPostgres(cfg config.DBConfig) (*SQLRepository, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewSQLRepository(db)
}

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLRepository(db)
}

func NewSQLRepository(db *gorm.DB) (*SQLRepository, error) {
	if err := db.AutoMigrate(&userRow{}, &fileRow{}); err != nil {
		return nil, err
	}
	return &SQLRepository{db: db}, nil
}

func (r *SQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *SQLRepository) Load(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		u := models.User{
			Username:         row.Username,
			Password:         row.Password,
			Email:            row.Email,
			Files:            make([]models.File, 0, len(row.Files)),
			ResetToken:       row.ResetToken,
			ResetTokenExpiry: row.ResetTokenExpiry,
		}
		for _, f := range row.Files {
			u.Files = append(u.Files, models.File{
				Filename:     f.Filename,
				Originalname: f.Originalname,
				Shared:       f.Shared,
			})
		}
		users = append(users, u)
	}

	if err := validateSnapshot(users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *SQLRepository) Save(ctx context.Context, users []models.User) error {
	userRows := make([]userRow, 0, len(users))
	var fileRows []fileRow
	for i, u := range users {
		userRows = append(userRows, userRow{
			Username:         u.Username,
			Position:         i,
			Password:         u.Password,
			Email:            u.Email,
			ResetToken:       u.ResetToken,
			ResetTokenExpiry: u.ResetTokenExpiry,
		})
		for j, f := range u.Files {
			fileRows = append(fileRows, fileRow{
				Username:     u.Username,
				Position:     j,
				Filename:     f.Filename,
				Originalname: f.Originalname,
				Shared:       f.Shared,
			})
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&fileRow{}).Error; err != nil {
			return fmt.Errorf("clearing files: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&userRow{}).Error; err != nil {
			return fmt.Errorf("clearing users: %w", err)
		}
		if len(userRows) > 0 {
			if err := tx.Omit("Files").Create(&userRows).Error; err != nil {
				return fmt.Errorf("inserting users: %w", err)
			}
		}
		if len(fileRows) > 0 {
			if err := tx.Create(&fileRows).Error; err != nil {
				return fmt.Errorf("inserting files: %w", err)
			}
		}
		return nil
	})
}
