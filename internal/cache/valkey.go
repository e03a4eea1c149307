package cache

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// ValkeyProvider implements Provider backed by a Valkey/Redis-compatible
// server. Connections are dialed per operation; the client issues few enough
// catalog lookups that pooling is not worth the complexity.
type ValkeyProvider struct {
	cfg ValkeyConfig
}

// ValkeyConfig holds connection parameters for the Valkey server.
type ValkeyConfig struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
	TLS          bool
}

// NewValkeyProvider creates a Provider using the supplied configuration. It
// pings the target to fail fast on bad credentials or connectivity.
func NewValkeyProvider(cfg ValkeyConfig) (*ValkeyProvider, error) {
	if cfg.Addr == "" {
		return nil, errors.New("valkey addr is required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 500 * time.Millisecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	provider := &ValkeyProvider{cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	reply, err := provider.do(ctx, "PING")
	if err != nil {
		return nil, err
	}
	if reply.kind != replySimple || string(reply.data) != "PONG" {
		return nil, fmt.Errorf("unexpected PING response: %s", reply.data)
	}
	return provider, nil
}

// Get fetches bytes by key, returning ErrCacheMiss when the key is absent.
func (p *ValkeyProvider) Get(ctx context.Context, key string) ([]byte, error) {
	reply, err := p.do(ctx, "GET", key)
	if err != nil {
		return nil, err
	}
	switch reply.kind {
	case replyNil:
		return nil, ErrCacheMiss
	case replyBulk:
		return reply.data, nil
	default:
		return nil, fmt.Errorf("unexpected valkey reply for GET")
	}
}

// Set stores bytes with the provided TTL.
func (p *ValkeyProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := []string{"SET", key, string(value)}
	if ttl > 0 {
		args = append(args, "PX", strconv.FormatInt(ttl.Milliseconds(), 10))
	}
	reply, err := p.do(ctx, args...)
	if err != nil {
		return err
	}
	if reply.kind != replySimple || string(reply.data) != "OK" {
		return fmt.Errorf("unexpected SET response: %s", reply.data)
	}
	return nil
}

// Del removes a key from the cache.
func (p *ValkeyProvider) Del(ctx context.Context, key string) error {
	_, err := p.do(ctx, "DEL", key)
	return err
}

// Close closes the underlying client (no-op for the per-call dialer).
func (p *ValkeyProvider) Close() error { return nil }

func (p *ValkeyProvider) do(ctx context.Context, args ...string) (valkeyReply, error) {
	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return valkeyReply{}, ctx.Err()
		}
		reply, err := p.roundTrip(ctx, args)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retriable(err) {
			break
		}
		time.Sleep(time.Duration(1<<attempt) * 25 * time.Millisecond)
	}
	return valkeyReply{}, lastErr
}

func (p *ValkeyProvider) roundTrip(ctx context.Context, args []string) (valkeyReply, error) {
	conn, err := p.dial(ctx)
	if err != nil {
		return valkeyReply{}, err
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	if err := p.handshake(conn, reader); err != nil {
		return valkeyReply{}, err
	}
	if err := p.send(conn, args); err != nil {
		return valkeyReply{}, err
	}
	return p.receive(conn, reader)
}

func (p *ValkeyProvider) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: p.cfg.DialTimeout}
	if p.cfg.TLS {
		host, _, err := net.SplitHostPort(p.cfg.Addr)
		if err != nil {
			host = p.cfg.Addr
		}
		return tls.DialWithDialer(&dialer, "tcp", p.cfg.Addr, &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		})
	}
	return dialer.DialContext(ctx, "tcp", p.cfg.Addr)
}

func (p *ValkeyProvider) handshake(conn net.Conn, reader *bufio.Reader) error {
	if p.cfg.Password != "" {
		auth := []string{"AUTH", p.cfg.Password}
		if p.cfg.Username != "" {
			auth = []string{"AUTH", p.cfg.Username, p.cfg.Password}
		}
		if err := p.send(conn, auth); err != nil {
			return err
		}
		reply, err := p.receive(conn, reader)
		if err != nil {
			return err
		}
		if reply.kind != replySimple || !strings.EqualFold(string(reply.data), "OK") {
			return fmt.Errorf("auth failed: %s", reply.data)
		}
	}
	if p.cfg.DB > 0 {
		if err := p.send(conn, []string{"SELECT", strconv.Itoa(p.cfg.DB)}); err != nil {
			return err
		}
		reply, err := p.receive(conn, reader)
		if err != nil {
			return err
		}
		if reply.kind != replySimple || !strings.EqualFold(string(reply.data), "OK") {
			return fmt.Errorf("select failed: %s", reply.data)
		}
	}
	return nil
}

func (p *ValkeyProvider) send(conn net.Conn, args []string) error {
	if err := conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout)); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(args))
	for _, arg := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(arg), arg)
	}
	_, err := io.WriteString(conn, b.String())
	return err
}

type replyKind int

const (
	replySimple replyKind = iota
	replyBulk
	replyInteger
	replyNil
)

type valkeyReply struct {
	kind replyKind
	data []byte
}

func (p *ValkeyProvider) receive(conn net.Conn, reader *bufio.Reader) (valkeyReply, error) {
	if err := conn.SetReadDeadline(time.Now().Add(p.cfg.ReadTimeout)); err != nil {
		return valkeyReply{}, err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return valkeyReply{}, err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return valkeyReply{}, fmt.Errorf("empty RESP reply")
	}

	payload := line[1:]
	switch line[0] {
	case '+':
		return valkeyReply{kind: replySimple, data: []byte(payload)}, nil
	case '-':
		return valkeyReply{}, errors.New(payload)
	case ':':
		return valkeyReply{kind: replyInteger, data: []byte(payload)}, nil
	case '$':
		size, err := strconv.Atoi(payload)
		if err != nil {
			return valkeyReply{}, err
		}
		if size < 0 {
			return valkeyReply{kind: replyNil}, nil
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return valkeyReply{}, err
		}
		return valkeyReply{kind: replyBulk, data: buf[:size]}, nil
	default:
		return valkeyReply{}, fmt.Errorf("unexpected RESP prefix %q", line[0])
	}
}

func retriable(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
