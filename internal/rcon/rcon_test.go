package rcon

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers each received line from the replies map, or with an
// echo when the command is unknown.
func fakeServer(t *testing.T, replies map[string]string) (host string, port uint16) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			cmd := sc.Text()
			reply, ok := replies[cmd]
			if !ok {
				reply = cmd
			}
			fmt.Fprintf(conn, "%s\n\n", reply)
		}
	}()

	addr := l.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port)
}

func dialFake(t *testing.T, replies map[string]string) *Console {
	t.Helper()

	host, port := fakeServer(t, replies)
	c, err := Dial(host, port, "hunter2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCommandRoundTrip(t *testing.T) {
	c := dialFake(t, map[string]string{"Info": "Welcome to Pal Server[v0.1.5.1]"})

	out, err := c.Info()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Pal Server[v0.1.5.1]", out)
}

func TestCommandMultiLineReply(t *testing.T) {
	c := dialFake(t, map[string]string{"Save": "Saving...\nComplete"})

	out, err := c.Save()
	require.NoError(t, err)
	assert.Equal(t, "Saving...\nComplete", out)
}

func TestOnlineParsesPlayerList(t *testing.T) {
	listing := strings.Join([]string{
		"name,playeruid,steamid",
		"Alex,12345,76561198000000001",
		"Sam,67890,76561198000000002",
		"garbage line",
	}, "\n")
	c := dialFake(t, map[string]string{"ShowPlayers": listing})

	players, err := c.Online()
	require.NoError(t, err)
	assert.Equal(t, []Player{
		{Name: "Alex", UID: "12345", SteamID: "76561198000000001"},
		{Name: "Sam", UID: "67890", SteamID: "76561198000000002"},
	}, players)
}

func TestOnlineEmptyServer(t *testing.T) {
	c := dialFake(t, map[string]string{"ShowPlayers": "name,playeruid,steamid"})

	players, err := c.Online()
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestTypedCommandLines(t *testing.T) {
	c := dialFake(t, nil) // echo server

	out, err := c.Announce("maintenance in 5")
	require.NoError(t, err)
	assert.Equal(t, "Broadcast maintenance in 5", out)

	out, err = c.Kick("76561198000000001")
	require.NoError(t, err)
	assert.Equal(t, "KickPlayer 76561198000000001", out)

	out, err = c.Ban("76561198000000001")
	require.NoError(t, err)
	assert.Equal(t, "BanPlayer 76561198000000001", out)

	out, err = c.Shutdown(30, "restarting")
	require.NoError(t, err)
	assert.Equal(t, "Shutdown 30 restarting", out)

	out, err = c.ForceStop()
	require.NoError(t, err)
	assert.Equal(t, "DoExit", out)
}

func TestCommandAfterClose(t *testing.T) {
	c := dialFake(t, nil)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	_, err := c.Command("Info")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDialRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	_, err = Dial(addr.IP.String(), uint16(addr.Port), "hunter2")
	assert.Error(t, err)
}
