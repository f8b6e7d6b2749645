// AngelaMos | 2026
// ids.go

package core

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

// IDGenerator issues the short alphanumeric identifiers used for users.
type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(cfg config.IDConfig) (*IDGenerator, error) {
	if cfg.Epoch != "" {
		epoch, err := time.Parse("2006-01-02", cfg.Epoch)
		if err != nil {
			return nil, fmt.Errorf("parse id epoch: %w", err)
		}
		snowflake.Epoch = epoch.UnixMilli()
	}

	node, err := snowflake.NewNode(cfg.Node)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}

	return &IDGenerator{node: node}, nil
}

// NewID returns a Base58 encoded snowflake, at most 11 characters.
func (g *IDGenerator) NewID() string {
	return g.node.Generate().Base58()
}
