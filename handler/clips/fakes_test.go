package clips

import (
	"clipbot/model"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	testBotID     = "bot"
	testRequestID = "100"
	testClipsID   = "200"
	testModRoleID = "300"
	testGuildID   = "400"
)

func testConfig() model.Config {
	return model.Config{
		Token: "t",
		Commands: model.Commands{
			AllowGuilds: []string{testGuildID},
			Auth:        model.Auth{Developers: []string{"dev"}},
		},
		ClipBot: model.ClipBot{
			RequestChannelID: testRequestID,
			ClipsChannelID:   testClipsID,
			ModeratorRoleID:  testModRoleID,
			YoutubeAllowed:   true,
			FileAllowed:      true,
			YoutubeTimeLimit: 15,
			MediaExtension:   ".mp4",
		},
	}
}

type interactionCall struct {
	Content   string
	Ephemeral bool
}

type sentMessage struct {
	ChannelID string
	Content   string
	Data      string
}

// fakeSession stands in for *discordgo.Session on both the command and the workflow side.
type fakeSession struct {
	mu         sync.Mutex
	responses  []interactionCall
	edits      []string
	sent       []sentMessage
	reactions  []string
	deleted    []string
	bulk       [][]string
	overwrites []string
	messages   map[string]*discordgo.Message
	history    []*discordgo.Message
	nextID     int

	listErr error
}

func newFakeSession() *fakeSession {
	return &fakeSession{messages: make(map[string]*discordgo.Message)}
}

func (f *fakeSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, interactionCall{
		Content:   resp.Data.Content,
		Ephemeral: resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0,
	})
	return nil
}

func (f *fakeSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, *newresp.Content)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overwrites = append(f.overwrites, guildID)
	return commands, nil
}

// ChannelMessages pages through history, newest first.
func (f *fakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	start := 0
	if beforeID != "" {
		for idx, m := range f.history {
			if m.ID == beforeID {
				start = idx + 1
				break
			}
		}
	}
	end := min(start+limit, len(f.history))
	return append([]*discordgo.Message(nil), f.history[start:end]...), nil
}

func (f *fakeSession) ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulk = append(f.bulk, append([]string(nil), messages...))
	return nil
}

func (f *fakeSession) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	delete(f.messages, messageID)
	return nil
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("HTTP 404 Not Found")
	}
	return m, nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	var body []byte
	for _, file := range data.Files {
		b, err := io.ReadAll(file.Reader)
		if err != nil {
			return nil, err
		}
		body = append(body, b...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: data.Content, Data: string(body)})
	return &discordgo.Message{ID: fmt.Sprintf("sent-%d", f.nextID), ChannelID: channelID}, nil
}

func (f *fakeSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emojiID)
	return nil
}

func (f *fakeSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	return nil, errors.New("HTTP 404 Not Found")
}

// fakeFetcher writes small files into a temp dir.
type fakeFetcher struct {
	dir      string
	duration int
	fetchErr error
	fetches  int
	n        int
}

func (f *fakeFetcher) ProbeDuration(ctx context.Context, url string) (int, error) {
	return f.duration, nil
}

func (f *fakeFetcher) Fetch(ctx context.Context, src model.Source) (string, error) {
	f.fetches++
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.write("fetched:" + src.URL)
}

func (f *fakeFetcher) DownloadAttachment(ctx context.Context, url string) (string, error) {
	return f.write("attachment:" + url)
}

func (f *fakeFetcher) write(content string) (string, error) {
	f.n++
	path := filepath.Join(f.dir, strconv.Itoa(f.n)+".mp4")
	return path, os.WriteFile(path, []byte(content), 0o644)
}

func newFakeFetcher(t *testing.T) *fakeFetcher {
	return &fakeFetcher{dir: t.TempDir(), duration: 10}
}

// snowflakeAt builds a message id created at t.
func snowflakeAt(t time.Time) string {
	ms := t.UnixMilli() - 1420070400000
	return strconv.FormatInt(ms<<22, 10)
}

// fakeDecisions serves a fixed decision log, newest first.
type fakeDecisions struct {
	records []model.DecisionRecord
	err     error
}

func (f *fakeDecisions) ListDecisions(ctx context.Context, limit int) ([]model.DecisionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[:min(limit, len(f.records))], nil
}

func (f *fakeDecisions) CountDecisions(ctx context.Context, moderatorID string, decision model.Decision) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, rec := range f.records {
		if rec.ModeratorID == moderatorID && rec.Decision == decision {
			count++
		}
	}
	return count, nil
}
