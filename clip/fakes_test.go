package clip

import (
	"clipbot/model"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

const (
	testBotID       = "bot"
	testRequestID   = "100"
	testClipsID     = "200"
	testModRoleID   = "300"
	testGuildID     = "400"
	testModeratorID = "mod"
)

func testConfig() model.ClipBot {
	return model.ClipBot{
		RequestChannelID: testRequestID,
		ClipsChannelID:   testClipsID,
		ModeratorRoleID:  testModRoleID,
		YoutubeAllowed:   true,
		FileAllowed:      true,
		YoutubeTimeLimit: 15,
		MediaExtension:   ".mp4",
	}
}

type sentMessage struct {
	ChannelID string
	Content   string
	FileNames []string
	Data      []byte
}

type reactionCall struct {
	ChannelID string
	MessageID string
	Emoji     string
}

type fakeGateway struct {
	mu        sync.Mutex
	messages  map[string]*discordgo.Message
	members   map[string]*discordgo.Member
	sent      []sentMessage
	reactions []reactionCall
	deleted   []string
	nextID    int

	sendErr   error
	reactErr  error
	deleteErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		messages: make(map[string]*discordgo.Message),
		members:  make(map[string]*discordgo.Member),
	}
}

func (g *fakeGateway) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	msg, ok := g.messages[messageID]
	if !ok || msg.ChannelID != channelID {
		return nil, errors.New("HTTP 404 Not Found")
	}
	return msg, nil
}

func (g *fakeGateway) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if g.sendErr != nil {
		return nil, g.sendErr
	}
	sm := sentMessage{ChannelID: channelID, Content: data.Content}
	for _, f := range data.Files {
		b, err := io.ReadAll(f.Reader)
		if err != nil {
			return nil, err
		}
		sm.FileNames = append(sm.FileNames, f.Name)
		sm.Data = append(sm.Data, b...)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.sent = append(g.sent, sm)
	return &discordgo.Message{ID: fmt.Sprintf("sent-%d", g.nextID), ChannelID: channelID}, nil
}

func (g *fakeGateway) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageID)
	delete(g.messages, messageID)
	return nil
}

func (g *fakeGateway) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reactions = append(g.reactions, reactionCall{ChannelID: channelID, MessageID: messageID, Emoji: emojiID})
	return g.reactErr
}

func (g *fakeGateway) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[userID]
	if !ok {
		return nil, errors.New("HTTP 404 Not Found")
	}
	return m, nil
}

func (g *fakeGateway) sentTo(channelID string) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentMessage
	for _, m := range g.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// fakeFetcher writes files into dir and records every call.
type fakeFetcher struct {
	dir       string
	duration  int
	probeErr  error
	fetchErr  error
	mu        sync.Mutex
	fetches   []model.Source
	downloads []string
	probes    int
	n         int
}

func newFakeFetcher(t *testing.T) *fakeFetcher {
	return &fakeFetcher{dir: t.TempDir(), duration: 10}
}

func (f *fakeFetcher) ProbeDuration(ctx context.Context, url string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.duration, f.probeErr
}

func (f *fakeFetcher) Fetch(ctx context.Context, src model.Source) (string, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, src)
	f.mu.Unlock()
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.write("fetched")
}

func (f *fakeFetcher) DownloadAttachment(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, url)
	f.mu.Unlock()
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.write("attachment:" + url)
}

func (f *fakeFetcher) write(content string) (string, error) {
	f.mu.Lock()
	f.n++
	path := filepath.Join(f.dir, fmt.Sprintf("%d.mp4", f.n))
	f.mu.Unlock()
	return path, os.WriteFile(path, []byte(content), 0o644)
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func requireDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

type fakeDecisionLog struct {
	mu      sync.Mutex
	records []model.DecisionRecord
}

func (l *fakeDecisionLog) RecordDecision(ctx context.Context, rec model.DecisionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func intPtr(v int) *int { return &v }
