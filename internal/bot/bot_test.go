package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
)

type fakeWeather struct {
	known     map[string]bool
	lookupErr error
}

func (f fakeWeather) Lookup(_ context.Context, city string) (weather.Place, error) {
	if f.lookupErr != nil {
		return weather.Place{}, f.lookupErr
	}
	if !f.known[city] {
		return weather.Place{}, weather.ErrNotFound
	}
	return weather.Place{Name: city}, nil
}

func (f fakeWeather) CurrentText(_ context.Context, city string) string {
	return "current:" + city
}

func (f fakeWeather) ForecastText(_ context.Context, city string, tomorrow bool) string {
	if tomorrow {
		return "tomorrow:" + city
	}
	return "today:" + city
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) DefaultCity(context.Context, int64) (string, error) {
	return "", errors.New("disk on fire")
}

func newTestBot() (*Bot, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return New(fakeWeather{known: map[string]bool{"Paris": true, "Oslo": true}}, s), s
}

func texts(replies []Reply) []string {
	out := make([]string, len(replies))
	for i, r := range replies {
		out[i] = r.Text
	}
	return out
}

func TestStartWithoutDefaultCity(t *testing.T) {
	b, _ := newTestBot()

	replies := b.Handle(context.Background(), Update{ChatID: 1, Text: "/start"})
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies, got %v", texts(replies))
	}
	if replies[0].Keyboard == nil || replies[0].Keyboard.Rows[0][0] != MenuButton {
		t.Fatalf("expected bottom menu keyboard, got %+v", replies[0])
	}
	if replies[1].Text != msgAskCity {
		t.Fatalf("expected city prompt, got %q", replies[1].Text)
	}
}

func TestStartWithDefaultCity(t *testing.T) {
	b, s := newTestBot()
	_ = s.SetDefaultCity(context.Background(), 1, "Paris")

	replies := b.Handle(context.Background(), Update{ChatID: 1, Text: "/start"})
	menu := replies[len(replies)-1]
	if !strings.Contains(menu.Text, "*Paris*") || menu.Inline == nil {
		t.Fatalf("expected main menu for Paris, got %+v", menu)
	}
	if menu.Inline.Rows[0][0].Data != cbShowWeather || menu.Inline.Rows[0][0].Text != "🌤 Weather in Paris" {
		t.Fatalf("unexpected first button %+v", menu.Inline.Rows[0][0])
	}
	if menu.ParseMode != ParseMode {
		t.Fatalf("expected markdown parse mode, got %q", menu.ParseMode)
	}
}

func TestMenuButton(t *testing.T) {
	b, s := newTestBot()

	replies := b.Handle(context.Background(), Update{ChatID: 1, Text: MenuButton})
	if len(replies) != 1 || replies[0].Text != msgAskCity {
		t.Fatalf("expected city prompt, got %v", texts(replies))
	}

	_ = s.SetDefaultCity(context.Background(), 1, "Oslo")
	replies = b.Handle(context.Background(), Update{ChatID: 1, Text: MenuButton})
	if len(replies) != 1 || replies[0].Inline == nil {
		t.Fatalf("expected main menu, got %v", texts(replies))
	}
}

func TestSubscriptionTimeInput(t *testing.T) {
	b, s := newTestBot()
	ctx := context.Background()

	replies := b.Handle(ctx, Update{ChatID: 5, Text: "08-05"})
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "*08:05*") {
		t.Fatalf("unexpected reply %v", texts(replies))
	}
	if hhmm, err := s.Subscription(ctx, 5); err != nil || hhmm != "08:05" {
		t.Fatalf("Subscription = %q, %v", hhmm, err)
	}

	for _, bad := range []string{"24-00", "12-60", "99-99"} {
		replies = b.Handle(ctx, Update{ChatID: 5, Text: bad})
		if len(replies) != 1 || replies[0].Text != msgInvalidTime {
			t.Fatalf("%s: expected invalid time reply, got %v", bad, texts(replies))
		}
	}
	if hhmm, _ := s.Subscription(ctx, 5); hhmm != "08:05" {
		t.Fatalf("invalid input must not change the subscription, got %q", hhmm)
	}
}

func TestCityInput(t *testing.T) {
	b, _ := newTestBot()

	replies := b.Handle(context.Background(), Update{ChatID: 1, Text: "  Paris "})
	if len(replies) != 1 || replies[0].Text != "City *Paris* found.\nChoose an action:" {
		t.Fatalf("unexpected reply %v", texts(replies))
	}
	rows := replies[0].Inline.Rows
	if rows[0][0].Data != "make_default_Paris" || rows[1][0].Data != "save_city_Paris" || rows[2][0].Data != "just_show_Paris" {
		t.Fatalf("unexpected actions %+v", rows)
	}

	replies = b.Handle(context.Background(), Update{ChatID: 1, Text: "Atlantis"})
	if len(replies) != 1 || replies[0].Text != msgCityNotFoundRetry {
		t.Fatalf("expected not found reply, got %v", texts(replies))
	}
}

func TestCityInputTransportFailureLooksLikeNotFound(t *testing.T) {
	b := New(fakeWeather{lookupErr: errors.New("timeout")}, store.NewMemoryStore())

	replies := b.Handle(context.Background(), Update{ChatID: 1, Text: "Paris"})
	if len(replies) != 1 || replies[0].Text != msgCityNotFoundRetry {
		t.Fatalf("expected not found reply, got %v", texts(replies))
	}
}

func TestForecastCallbacks(t *testing.T) {
	b, s := newTestBot()
	ctx := context.Background()

	replies := b.Handle(ctx, Update{ChatID: 1, Callback: cbToday})
	if len(replies) != 1 || replies[0].Text != msgNoDefaultCity {
		t.Fatalf("expected prompt without default city, got %v", texts(replies))
	}

	_ = s.SetDefaultCity(ctx, 1, "Paris")
	cases := map[string]string{
		cbShowWeather: "current:Paris",
		cbToday:       "today:Paris",
		cbTomorrow:    "tomorrow:Paris",
	}
	for cb, want := range cases {
		replies = b.Handle(ctx, Update{ChatID: 1, Callback: cb})
		if len(replies) != 2 || replies[0].Text != want || replies[1].Inline == nil {
			t.Fatalf("%s: unexpected replies %v", cb, texts(replies))
		}
	}
}

func TestCityListFlow(t *testing.T) {
	b, s := newTestBot()
	ctx := context.Background()

	replies := b.Handle(ctx, Update{ChatID: 1, Callback: cbChooseCity})
	if len(replies) != 1 || replies[0].Text != msgNoSavedCities {
		t.Fatalf("unexpected reply %v", texts(replies))
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: "save_city_Oslo"})
	if len(replies) != 2 || replies[0].Text != "📌 *Oslo* added to your list." || replies[1].Text != msgNoDefaultCity {
		t.Fatalf("unexpected replies %v", texts(replies))
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: "make_default_Paris"})
	if len(replies) != 2 || !strings.Contains(replies[1].Text, "*Paris*") {
		t.Fatalf("unexpected replies %v", texts(replies))
	}
	if city, _ := s.DefaultCity(ctx, 1); city != "Paris" {
		t.Fatalf("expected Paris as default, got %q", city)
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbChooseCity})
	rows := replies[0].Inline.Rows
	if len(rows) != 2 || rows[0][0].Data != "city_Oslo" || rows[1][0].Data != cbBackMain {
		t.Fatalf("unexpected city menu %+v", rows)
	}

	for _, cb := range []string{"city_Oslo", "just_show_Oslo"} {
		replies = b.Handle(ctx, Update{ChatID: 1, Callback: cb})
		if len(replies) != 2 || replies[0].Text != "current:Oslo" || replies[1].Text != msgChooseAction {
			t.Fatalf("%s: unexpected replies %v", cb, texts(replies))
		}
	}
}

func TestSubscriptionCallbacks(t *testing.T) {
	b, s := newTestBot()
	ctx := context.Background()

	replies := b.Handle(ctx, Update{ChatID: 1, Callback: cbSubscribe})
	if !strings.Contains(replies[0].Text, "*not set*") || replies[0].Inline == nil {
		t.Fatalf("unexpected subscription menu %+v", replies[0])
	}

	_ = s.SetSubscription(ctx, 1, "07:45")
	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbSubscribe})
	if !strings.Contains(replies[0].Text, "*07:45*") {
		t.Fatalf("expected current time in menu, got %q", replies[0].Text)
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbSubSet})
	if len(replies) != 1 || replies[0].Text != msgEnterTime {
		t.Fatalf("unexpected reply %v", texts(replies))
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbSubCancel})
	if replies[0].Text != msgSubscriptionCancelled {
		t.Fatalf("unexpected reply %v", texts(replies))
	}
	if _, err := s.Subscription(ctx, 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected subscription removed, got %v", err)
	}
}

func TestHelpAndNavigation(t *testing.T) {
	b, s := newTestBot()
	ctx := context.Background()

	replies := b.Handle(ctx, Update{ChatID: 1, Callback: cbHelp})
	if len(replies) != 2 || !strings.Contains(replies[0].Text, "Weather in your city") || replies[1].Text != msgNoDefaultCity {
		t.Fatalf("unexpected help replies %v", texts(replies))
	}

	_ = s.SetDefaultCity(ctx, 1, "Oslo")
	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbHelp})
	if !strings.Contains(replies[0].Text, "Weather in Oslo") || replies[1].Inline == nil {
		t.Fatalf("unexpected help replies %v", texts(replies))
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbBackMain})
	if len(replies) != 1 || replies[0].Inline == nil {
		t.Fatalf("expected main menu, got %v", texts(replies))
	}

	replies = b.Handle(ctx, Update{ChatID: 1, Callback: cbAddCity})
	if len(replies) != 1 || replies[0].Text != msgEnterCity {
		t.Fatalf("unexpected reply %v", texts(replies))
	}

	if replies := b.Handle(ctx, Update{ChatID: 1, Callback: "no_such_button"}); len(replies) != 0 {
		t.Fatalf("expected no replies for unknown callback, got %v", texts(replies))
	}
}

func TestStoreFailureYieldsErrorReply(t *testing.T) {
	b := New(fakeWeather{}, failingStore{store.NewMemoryStore()})

	replies := b.Handle(context.Background(), Update{ChatID: 1, Callback: cbToday})
	if len(replies) != 1 || replies[0].Text != msgInternalError {
		t.Fatalf("expected internal error reply, got %v", texts(replies))
	}
}

func TestDigest(t *testing.T) {
	b, _ := newTestBot()

	r := b.Digest(context.Background(), "Paris")
	if r.Text != "📨 Daily forecast:\n\ntoday:Paris" {
		t.Fatalf("unexpected digest %q", r.Text)
	}
}
