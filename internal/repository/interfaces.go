package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
)

// All repository interfaces in one file
type (
	// TableRepository reads and writes the rows of one entity's table.
	// Every mutation is a single statement committed on its own.
	TableRepository interface {
		Entity() *schema.Entity
		List(ctx context.Context) ([]model.Row, error)
		Search(ctx context.Context, column schema.Column, term string) ([]model.Row, error)
		Exists(ctx context.Context, key string) (bool, error)
		Create(ctx context.Context, row model.Row) error
		// Update rewrites the row stored under oldKey, including its key.
		Update(ctx context.Context, oldKey string, row model.Row) error
		Delete(ctx context.Context, key string) error
	}

	StatsRepository interface {
		Dashboard(ctx context.Context, day time.Time) (*model.DashboardStats, error)
	}

	// Tables hands out the repository for an entity.
	Tables interface {
		Table(entity *schema.Entity) TableRepository
	}
)
