package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnknownDriver = errors.New("unknown catalog driver")

type championRecord struct {
	Name       string `gorm:"primaryKey;size:100"`
	Position   int    `gorm:"not null;index"`
	SkillLevel int    `gorm:"not null"`
	EntryFee   int    `gorm:"not null"`
}

func (championRecord) TableName() string { return "catalog_champions" }

type challengeRecord struct {
	Number        int  `gorm:"primaryKey;autoIncrement:false"`
	Position      int  `gorm:"not null;index"`
	RequiredSkill int  `gorm:"not null"`
	Reward        int  `gorm:"not null"`
	IsBoss        bool `gorm:"not null;default:false"`
}

func (challengeRecord) TableName() string { return "catalog_challenges" }

// Store persists catalog definitions in a SQL database.
type Store struct {
	db *gorm.DB
}

// OpenStore connects using driver "postgres" or "sqlite".
func OpenStore(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&championRecord{}, &challengeRecord{}); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}

// Seed replaces the stored catalog with c.
func (s *Store) Seed(ctx context.Context, c *Catalog) error {
	champions := make([]championRecord, 0, len(c.champions))
	for i, ch := range c.champions {
		champions = append(champions, championRecord{
			Name: ch.Name, Position: i, SkillLevel: ch.SkillLevel, EntryFee: ch.EntryFee,
		})
	}
	challenges := make([]challengeRecord, 0, len(c.challenges))
	for i, ch := range c.challenges {
		challenges = append(challenges, challengeRecord{
			Number: ch.Number, Position: i, RequiredSkill: ch.RequiredSkill, Reward: ch.Reward, IsBoss: ch.IsBoss,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&championRecord{}).Error; err != nil {
			return fmt.Errorf("clear champions: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&challengeRecord{}).Error; err != nil {
			return fmt.Errorf("clear challenges: %w", err)
		}
		if len(champions) > 0 {
			if err := tx.Create(&champions).Error; err != nil {
				return fmt.Errorf("insert champions: %w", err)
			}
		}
		if len(challenges) > 0 {
			if err := tx.Create(&challenges).Error; err != nil {
				return fmt.Errorf("insert challenges: %w", err)
			}
		}
		return nil
	})
}

// Load reads the stored catalog in declaration order.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	var (
		champions  []championRecord
		challenges []challengeRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.WithContext(gctx).Order("position").Find(&champions).Error; err != nil {
			return fmt.Errorf("load champions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.WithContext(gctx).Order("position").Find(&challenges).Error; err != nil {
			return fmt.Errorf("load challenges: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	defs := make([]Champion, 0, len(champions))
	for _, r := range champions {
		defs = append(defs, Champion{Name: r.Name, SkillLevel: r.SkillLevel, EntryFee: r.EntryFee})
	}
	chs := make([]Challenge, 0, len(challenges))
	for _, r := range challenges {
		chs = append(chs, Challenge{Number: r.Number, RequiredSkill: r.RequiredSkill, Reward: r.Reward, IsBoss: r.IsBoss})
	}
	return New(defs, chs)
}
