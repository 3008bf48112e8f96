// Package rcon is a client for the game server's remote console, a
// line-oriented text protocol over TCP. Replies are terminated by a
// blank line.
package rcon

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

var ErrClosed = errors.New("console is closed")

// Player is one entry of the ShowPlayers listing.
type Player struct {
	Name    string
	UID     string
	SteamID string
}

// Console is a persistent connection to the server console. Commands are
// serialized; only one may be in flight at a time.
type Console struct {
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

// Dial connects and authenticates against the console.
func Dial(host string, port uint16, password string) (*Console, error) {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	conn, err := net.DialTimeout("tcp", addr, defaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial console %s: %w", addr, err)
	}

	c := &Console{timeout: defaultTimeout, conn: conn, r: bufio.NewReader(conn)}
	if _, err := c.Command(password); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to authenticate against console: %w", err)
	}

	return c, nil
}

// Command sends a single command line and returns the reply with the
// trailing blank line stripped.
func (c *Console) Command(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return "", ErrClosed
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(c.conn, "%s\n", cmd); err != nil {
		return "", fmt.Errorf("failed to send console command: %w", err)
	}

	var lines []string
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read console reply: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Info returns the server name and version banner.
func (c *Console) Info() (string, error) {
	return c.Command("Info")
}

// Save forces a world save.
func (c *Console) Save() (string, error) {
	return c.Command("Save")
}

// Online lists the connected players. The reply's first line is a CSV
// header; malformed rows are skipped.
func (c *Console) Online() ([]Player, error) {
	out, err := c.Command("ShowPlayers")
	if err != nil {
		return nil, err
	}

	var players []Player
	lines := strings.Split(out, "\n")
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			continue
		}
		players = append(players, Player{Name: fields[0], UID: fields[1], SteamID: fields[2]})
	}

	return players, nil
}

// Announce broadcasts a message to every connected player.
func (c *Console) Announce(message string) (string, error) {
	return c.Command("Broadcast " + message)
}

// Kick disconnects a player by Steam ID.
func (c *Console) Kick(steamID string) (string, error) {
	return c.Command("KickPlayer " + steamID)
}

// Ban kicks and blacklists a player by Steam ID.
func (c *Console) Ban(steamID string) (string, error) {
	return c.Command("BanPlayer " + steamID)
}

// Shutdown schedules a server stop after the given delay, announcing the
// message in the meantime.
func (c *Console) Shutdown(seconds int, message string) (string, error) {
	return c.Command(fmt.Sprintf("Shutdown %d %s", seconds, message))
}

// ForceStop kills the server immediately, without saving.
func (c *Console) ForceStop() (string, error) {
	return c.Command("DoExit")
}
