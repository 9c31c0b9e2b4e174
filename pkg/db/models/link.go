package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
)

// Link relates records owned by two different modules.
type Link struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	LeftModule  enums.LinkModule `gorm:"column:left_module;type:text;not null;uniqueIndex:ux_links_pair,priority:1"`
	LeftID      uuid.UUID        `gorm:"column:left_id;type:uuid;not null;uniqueIndex:ux_links_pair,priority:2"`
	RightModule enums.LinkModule `gorm:"column:right_module;type:text;not null;uniqueIndex:ux_links_pair,priority:3"`
	RightID     uuid.UUID        `gorm:"column:right_id;type:uuid;not null;uniqueIndex:ux_links_pair,priority:4"`
	Position    int              `gorm:"column:position;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (l *Link) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
