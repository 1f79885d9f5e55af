package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/supportdesk/support_bot/internal/model"
	"go.uber.org/zap"
)

type mockUserStore struct {
	user       *model.BotUser
	resolveErr error

	mu          sync.Mutex
	savedStates map[int64]string
	stateWrites int
}

func (m *mockUserStore) Resolve(ctx context.Context, tgNick string, telegramID int64) (*model.BotUser, error) {
	return m.user, m.resolveErr
}

func (m *mockUserStore) SetState(ctx context.Context, userID int64, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.savedStates == nil {
		m.savedStates = make(map[int64]string)
	}
	m.savedStates[userID] = state
	m.stateWrites++
	return nil
}

type mockTransport struct {
	sent     []*bot.SendMessageParams
	answered []string
}

func (m *mockTransport) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.sent = append(m.sent, params)
	return &models.Message{}, nil
}

func (m *mockTransport) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	m.answered = append(m.answered, params.CallbackQueryID)
	return true, nil
}

func messageUpdate(chatID int64, username, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Chat: models.Chat{ID: chatID},
			From: &models.User{ID: chatID, Username: username},
		},
	}
}

func callbackUpdate(chatID int64, username, data string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb1",
			From: models.User{ID: chatID, Username: username},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: chatID}},
			},
			Data: data,
		},
	}
}

// recordingTable строит таблицу, в которой каждый обработчик запоминает вызов
// и возвращает заданную метку
func recordingTable(calls *[]string) Table {
	record := func(name string, next StateLabel) HandlerFunc {
		return func(ctx context.Context, update *models.Update, user *model.BotUser) (StateLabel, error) {
			*calls = append(*calls, name)
			return next, nil
		}
	}

	return Table{
		model.RoleUnknown: {
			StateStart: record("unknown/START", StateStart),
		},
		model.RoleManager: {
			StateStart:          record("manager/START", StateHandleContacts),
			StateHandleContacts: record("manager/HANDLE_CONTACTS", StateStart),
		},
		model.RoleOwner: {
			StateStart:         record("owner/START", StateHandleButtons),
			StateHandleButtons: record("owner/HANDLE_BUTTONS", StateStart),
		},
		model.RoleContractor: {
			StateStart: record("contractor/START", StateHandleMenuContractor),
		},
		model.RoleClient: {
			StateStart: record("client/START", StateHandleMenuClient),
		},
	}
}

func TestStartCommandForcesStartState(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 1, TelegramID: 100, TgNick: "boss", Role: model.RoleManager, BotState: "HANDLE_CONTACTS"},
	}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(100, "boss", "/start"))

	if len(calls) != 1 || calls[0] != "manager/START" {
		t.Fatalf("expected manager/START to be invoked, got %v", calls)
	}
	if got := store.savedStates[1]; got != "HANDLE_CONTACTS" {
		t.Errorf("expected next state HANDLE_CONTACTS persisted, got %q", got)
	}
}

func TestPersistedStateSelectsHandler(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 2, TelegramID: 200, TgNick: "boss", Role: model.RoleManager, BotState: "HANDLE_CONTACTS"},
	}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, callbackUpdate(200, "boss", "contacts_available_contractors"))

	if len(calls) != 1 || calls[0] != "manager/HANDLE_CONTACTS" {
		t.Fatalf("expected manager/HANDLE_CONTACTS to be invoked, got %v", calls)
	}
	if got := store.savedStates[2]; got != "START" {
		t.Errorf("expected next state START persisted, got %q", got)
	}
}

func TestBlankStateDefaultsToStart(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 3, TelegramID: 300, TgNick: "owner", Role: model.RoleOwner, BotState: ""},
	}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(300, "owner", "привет"))

	if len(calls) != 1 || calls[0] != "owner/START" {
		t.Fatalf("expected owner/START to be invoked, got %v", calls)
	}
}

func TestUnknownIdentityNeverPersistsState(t *testing.T) {
	var calls []string
	store := &mockUserStore{user: nil}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(42, "stranger", "/start"))

	if len(calls) != 1 || calls[0] != "unknown/START" {
		t.Fatalf("expected unknown/START to be invoked, got %v", calls)
	}
	if len(store.savedStates) != 0 {
		t.Errorf("expected no state persisted for unknown identity, got %v", store.savedStates)
	}
}

func TestMissingTableEntryHaltsEvent(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 4, TelegramID: 400, TgNick: "worker", Role: model.RoleContractor, BotState: "NO_SUCH_STATE"},
	}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(400, "worker", "текст"))

	if len(calls) != 0 {
		t.Errorf("expected no handler invoked on table gap, got %v", calls)
	}
	if len(store.savedStates) != 0 {
		t.Errorf("expected no state persisted on table gap, got %v", store.savedStates)
	}
}

func TestEventWithoutPayloadIsNoop(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 5, TelegramID: 500, TgNick: "boss", Role: model.RoleManager},
	}
	d := NewDispatcher(store, recordingTable(&calls), &mockTransport{}, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(500, "boss", ""))

	if len(calls) != 0 {
		t.Errorf("expected no handler invoked without payload, got %v", calls)
	}
}

func TestHelpCommandBypassesStateMachine(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 6, TelegramID: 600, TgNick: "boss", Role: model.RoleManager, BotState: "HANDLE_CONTACTS"},
	}
	tg := &mockTransport{}
	d := NewDispatcher(store, recordingTable(&calls), tg, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(600, "boss", "/help"))

	if len(calls) != 0 {
		t.Errorf("expected no state handler invoked for /help, got %v", calls)
	}
	if len(tg.sent) != 1 || tg.sent[0].Text != helpText {
		t.Fatalf("expected help text sent, got %v", tg.sent)
	}
	if len(store.savedStates) != 0 {
		t.Errorf("expected /help to leave state untouched, got %v", store.savedStates)
	}
}

// /help обязан работать и для незнакомой идентичности: приветствие
// для незнакомцев не должно перехватывать команду
func TestHelpAvailableToUnknownIdentity(t *testing.T) {
	var calls []string
	store := &mockUserStore{user: nil}
	tg := &mockTransport{}
	d := NewDispatcher(store, recordingTable(&calls), tg, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, messageUpdate(43, "stranger", "/help"))

	if len(calls) != 0 {
		t.Errorf("expected no state handler invoked for /help, got %v", calls)
	}
	if len(tg.sent) != 1 || tg.sent[0].Text != helpText {
		t.Fatalf("expected help text sent to unknown identity, got %v", tg.sent)
	}
}

// Чтение состояния, обработчик и запись следующего состояния должны идти
// строго последовательно для одного чата: параллельные события не пересекаются
// и ни одна запись состояния не теряется
func TestConcurrentUpdatesForOneChatAreSerialized(t *testing.T) {
	const events = 16

	store := &mockUserStore{
		user: &model.BotUser{ID: 8, TelegramID: 800, TgNick: "boss", Role: model.RoleManager},
	}

	var inFlight, overlapped int32
	table := Table{
		model.RoleManager: {
			StateStart: func(ctx context.Context, update *models.Update, user *model.BotUser) (StateLabel, error) {
				if atomic.AddInt32(&inFlight, 1) > 1 {
					atomic.StoreInt32(&overlapped, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return StateStart, nil
			},
		},
	}
	d := NewDispatcher(store, table, &mockTransport{}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.HandleUpdate(context.Background(), nil, messageUpdate(800, "boss", "привет"))
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&overlapped) != 0 {
		t.Error("handlers of one chat overlapped, expected serialized execution")
	}
	if store.stateWrites != events {
		t.Errorf("expected %d state writes, got %d", events, store.stateWrites)
	}
}

// Мьютексы чатов независимы: занятый чат не задерживает события других чатов
func TestBusyChatDoesNotBlockOthers(t *testing.T) {
	store := &mockUserStore{
		user: &model.BotUser{ID: 9, TelegramID: 900, TgNick: "boss", Role: model.RoleManager},
	}

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	table := Table{
		model.RoleManager: {
			StateStart: func(ctx context.Context, update *models.Update, user *model.BotUser) (StateLabel, error) {
				if update.Message.Chat.ID == 900 {
					close(firstEntered)
					<-releaseFirst
				}
				return StateStart, nil
			},
		},
	}
	d := NewDispatcher(store, table, &mockTransport{}, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.HandleUpdate(context.Background(), nil, messageUpdate(900, "boss", "привет"))
	}()
	<-firstEntered

	secondDone := make(chan struct{})
	go func() {
		d.HandleUpdate(context.Background(), nil, messageUpdate(901, "boss", "привет"))
		close(secondDone)
	}()

	select {
	case <-secondDone:
	case <-time.After(2 * time.Second):
		t.Fatal("update for another chat blocked behind a busy chat")
	}

	close(releaseFirst)
	wg.Wait()
}

func TestCallbackQueryIsAnswered(t *testing.T) {
	var calls []string
	store := &mockUserStore{
		user: &model.BotUser{ID: 7, TelegramID: 700, TgNick: "boss", Role: model.RoleManager, BotState: "HANDLE_CONTACTS"},
	}
	tg := &mockTransport{}
	d := NewDispatcher(store, recordingTable(&calls), tg, zap.NewNop())

	d.HandleUpdate(context.Background(), nil, callbackUpdate(700, "boss", "whatever"))

	if len(tg.answered) != 1 || tg.answered[0] != "cb1" {
		t.Errorf("expected callback query answered, got %v", tg.answered)
	}
}

func TestTableValidate(t *testing.T) {
	var calls []string
	table := recordingTable(&calls)
	if err := table.Validate(); err != nil {
		t.Fatalf("complete table must validate, got %v", err)
	}

	delete(table[model.RoleClient], StateStart)
	if err := table.Validate(); err == nil {
		t.Error("expected error for role without START")
	}

	delete(table, model.RoleClient)
	if err := table.Validate(); err == nil {
		t.Error("expected error for missing role table")
	}
}
