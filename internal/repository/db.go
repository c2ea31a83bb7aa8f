package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/user/vidtube/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
// 先用 database/sql 建连接池，再交给 gorm 托管，连接池参数留在 sql.DB 层
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true, // 唯一键冲突映射成 gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("gorm 初始化失败: %w", err)
	}

	// 自动建表（uuid 默认值依赖 pgcrypto 的 gen_random_uuid）
	if err := db.AutoMigrate(
		&model.Video{},
		&model.Category{},
		&model.User{},
		&model.UserRole{},
	); err != nil {
		return nil, fmt.Errorf("自动迁移失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	Video    *VideoRepository
	Category *CategoryRepository
	User     *UserRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Video:    NewVideoRepository(db),
		Category: NewCategoryRepository(db),
		User:     NewUserRepository(db),
	}
}
