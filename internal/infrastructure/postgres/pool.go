package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukena18/Haci-sub000/pkg/config"
)

// NewPool abre el pool del almacén del libro y verifica la conexión.
// Los NUMERIC de las vistas públicas se leen como shopspring/decimal.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfigFor traduce DBConfig a la configuración de pgxpool sin conectar.
func poolConfigFor(cfg config.DBConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	p := cfg.Pool
	if p.MaxConns > 0 {
		pc.MaxConns = int32(p.MaxConns)
	}
	if p.MinConns >= 0 && p.MinConns <= int(pc.MaxConns) {
		pc.MinConns = int32(p.MinConns)
	}
	if p.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = p.MaxConnLifetime
	}
	if p.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = p.MaxConnIdleTime
	}
	if p.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = p.HealthCheckPeriod
	}
	if p.ForceIPv4 {
		pc.ConnConfig.DialFunc = dialIPv4(net.DefaultResolver)
	}

	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

// lookuper subconjunto de net.Resolver usado por dialIPv4.
type lookuper interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// dialIPv4 conecta siempre por tcp4. Sin registro A se intenta el dial normal.
func dialIPv4(r lookuper) func(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ip, err := resolveIPv4(ctx, r, host)
		if err != nil {
			return d.DialContext(ctx, network, addr)
		}
		return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
}

var errNoIPv4 = errors.New("sin dirección IPv4")

func resolveIPv4(ctx context.Context, r lookuper, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", errNoIPv4
}
