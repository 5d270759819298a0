package connector

import (
	"context"
	"fmt"
)

const (
	TypeLocal = "local"
	TypeSSH   = "ssh"
)

// New returns a connected Connector of the given type.
func New(ctx context.Context, connType string, cfg ConnectionCfg) (Connector, error) {
	var conn Connector
	switch connType {
	case "", TypeLocal:
		conn = NewLocalConnector()
	case TypeSSH:
		if cfg.Host == "" {
			return nil, fmt.Errorf("ssh connector requires a host")
		}
		conn = NewSSHConnector()
	default:
		return nil, fmt.Errorf("unknown connector type %q", connType)
	}
	if err := conn.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return conn, nil
}
