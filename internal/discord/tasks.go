package discord

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/fetch"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
	"pkg.twizy.sh/konikotaka/internal/util"
)

// TaskConfig drives the background loops.
type TaskConfig struct {
	HealthcheckURL      string
	HealthcheckInterval time.Duration
	ActivityInterval    time.Duration
	PingInterval        time.Duration
	StreamInterval      time.Duration
}

// RunTasks starts the periodic loops. They all stop when ctx is cancelled.
func (d *Discord) RunTasks(ctx context.Context, tc *TaskConfig) {
	if len(d.config.activities) > 0 {
		go d.runActivityRotation(ctx, tc.ActivityInterval)
	}
	if tc.HealthcheckURL != "" {
		go d.runHealthcheck(ctx, tc.HealthcheckURL, tc.HealthcheckInterval)
	}
	go d.runPingSampler(ctx, tc.PingInterval)
	if d.config.streamer != "" && d.config.announceChannel != 0 {
		go d.runStreamWatcher(ctx, tc.StreamInterval)
	}
}

func (d *Discord) runActivityRotation(ctx context.Context, interval time.Duration) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			activity := d.config.activities[rng.Intn(len(d.config.activities))]
			if err := d.session.UpdateGameStatus(0, activity); err != nil {
				d.sugar.Errorf("Failed to rotate activity: %s.", err)
			}
		}
	}
}

func (d *Discord) runHealthcheck(ctx context.Context, url string, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := fetch.Ping(ctx, url); err != nil {
				d.sugar.Errorf("Health check failed: %s.", err)
			}
		}
	}
}

// runPingSampler persists a gateway and REST latency sample on every tick.
func (d *Discord) runPingSampler(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			ws := d.session.HeartbeatLatency().Milliseconds()

			start := time.Now()
			if _, err := d.session.User("@me"); err != nil {
				d.sugar.Errorf("REST latency probe failed: %s.", err)
				continue
			}
			rest := time.Since(start).Milliseconds()

			p := &model.Ping{PingWS: int32(ws), PingREST: int32(rest)}
			if err := d.repo.AddPing(ctx, p); err != nil {
				d.sugar.Errorf("Failed to persist latency sample: %s.", err)
			}
		}
	}
}

// runStreamWatcher announces the configured streamer going live. Only the
// offline-to-live edge posts a message.
func (d *Discord) runStreamWatcher(ctx context.Context, interval time.Duration) {
	wasLive := false
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			stream, err := d.svc.Twitch.LookupStream(ctx, d.config.streamer)
			if err != nil {
				d.sugar.Errorf("Stream watch failed: %s.", err)
				continue
			}

			if stream.Live && !wasLive {
				channelID := util.FormatSnowflake(d.config.announceChannel)
				msg := fmt.Sprintf("Hey @everyone, %s is live on Twitch! Come watch at https://twitch.tv/%s!",
					d.config.streamer, d.config.streamer)
				if _, err := d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
					Content: msg,
					Embeds:  []*discordgo.MessageEmbed{liveEmbed(d.config.streamer, stream)},
				}); err != nil {
					d.sugar.Errorf("Failed to announce stream: %s.", err)
				}
			}
			wasLive = stream.Live
		}
	}
}
