package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
)

// ParseMode is the markup used by every reply.
const ParseMode = "Markdown"

var subscriptionTimeRe = regexp.MustCompile(`^(\d{2})-(\d{2})$`)

// Update is an incoming chat event: either typed text or a pressed inline button.
type Update struct {
	ChatID   int64
	Text     string
	Callback string
}

// Reply is one outgoing chat message.
type Reply struct {
	Text      string          `json:"text"`
	ParseMode string          `json:"parse_mode,omitempty"`
	Inline    *InlineKeyboard `json:"inline_keyboard,omitempty"`
	Keyboard  *ReplyKeyboard  `json:"reply_keyboard,omitempty"`
}

// Weather is the subset of weather.Service the bot uses.
type Weather interface {
	Lookup(ctx context.Context, city string) (weather.Place, error)
	CurrentText(ctx context.Context, city string) string
	ForecastText(ctx context.Context, city string, tomorrow bool) string
}

// Store keeps per-chat settings.
type Store interface {
	DefaultCity(ctx context.Context, chatID int64) (string, error)
	SetDefaultCity(ctx context.Context, chatID int64, city string) error
	AddCity(ctx context.Context, chatID int64, city string) error
	Cities(ctx context.Context, chatID int64) ([]string, error)
	SetSubscription(ctx context.Context, chatID int64, hhmm string) error
	Subscription(ctx context.Context, chatID int64) (string, error)
	DeleteSubscription(ctx context.Context, chatID int64) error
}

// Bot routes chat updates to the weather service and the profile store.
type Bot struct {
	weather Weather
	store   Store
}

// New creates a new Bot.
func New(w Weather, s Store) *Bot {
	return &Bot{weather: w, store: s}
}

func text(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...), ParseMode: ParseMode}
}

// Handle processes one update and returns the replies to send, in order.
// Unknown callbacks produce no replies.
func (b *Bot) Handle(ctx context.Context, upd Update) []Reply {
	var (
		replies []Reply
		err     error
	)
	if upd.Callback != "" {
		replies, err = b.handleCallback(ctx, upd.ChatID, upd.Callback)
	} else {
		replies, err = b.handleText(ctx, upd.ChatID, strings.TrimSpace(upd.Text))
	}
	if err != nil {
		log.Printf("ERROR: bot: chat %d: %v", upd.ChatID, err)
		return []Reply{text(msgInternalError)}
	}
	return replies
}

func (b *Bot) handleText(ctx context.Context, chatID int64, msg string) ([]Reply, error) {
	switch {
	case msg == "/start":
		loading := text(msgLoading)
		loading.Keyboard = BottomMenu()
		menu, err := b.menuOrPrompt(ctx, chatID, msgAskCity)
		if err != nil {
			return nil, err
		}
		return []Reply{loading, menu}, nil

	case msg == MenuButton:
		menu, err := b.menuOrPrompt(ctx, chatID, msgAskCity)
		if err != nil {
			return nil, err
		}
		return []Reply{menu}, nil

	case subscriptionTimeRe.MatchString(msg):
		return b.setSubscriptionTime(ctx, chatID, msg)

	default:
		return b.cityInput(ctx, msg)
	}
}

func (b *Bot) setSubscriptionTime(ctx context.Context, chatID int64, msg string) ([]Reply, error) {
	m := subscriptionTimeRe.FindStringSubmatch(msg)
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return []Reply{text(msgInvalidTime)}, nil
	}

	hhmm := fmt.Sprintf("%02d:%02d", hh, mm)
	if err := b.store.SetSubscription(ctx, chatID, hhmm); err != nil {
		return nil, fmt.Errorf("set subscription: %w", err)
	}
	return []Reply{text(msgSubscriptionSet, hhmm)}, nil
}

func (b *Bot) cityInput(ctx context.Context, city string) ([]Reply, error) {
	if _, err := b.weather.Lookup(ctx, city); err != nil {
		if !errors.Is(err, weather.ErrNotFound) {
			log.Printf("ERROR: bot: lookup %q failed: %v", city, err)
		}
		return []Reply{text(msgCityNotFoundRetry)}, nil
	}

	found := text(msgCityFound, city)
	found.Inline = NewCityActions(city)
	return []Reply{found}, nil
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, data string) ([]Reply, error) {
	if city, ok := strings.CutPrefix(data, prefixMakeDefault); ok {
		if err := b.store.SetDefaultCity(ctx, chatID, city); err != nil {
			return nil, fmt.Errorf("set default city: %w", err)
		}
		return []Reply{text(msgDefaultSet, city), mainMenu(city)}, nil
	}
	if city, ok := strings.CutPrefix(data, prefixSaveCity); ok {
		if err := b.store.AddCity(ctx, chatID, city); err != nil {
			return nil, fmt.Errorf("add city: %w", err)
		}
		menu, err := b.menuOrPrompt(ctx, chatID, msgNoDefaultCity)
		if err != nil {
			return nil, err
		}
		return []Reply{text(msgCitySaved, city), menu}, nil
	}
	if city, ok := strings.CutPrefix(data, prefixJustShow); ok {
		return b.showCity(ctx, city), nil
	}
	if city, ok := strings.CutPrefix(data, prefixCity); ok {
		return b.showCity(ctx, city), nil
	}

	switch data {
	case cbShowWeather:
		return b.withDefaultCity(ctx, chatID, func(city string) []Reply {
			return []Reply{text("%s", b.weather.CurrentText(ctx, city)), mainMenu(city)}
		})

	case cbToday, cbTomorrow:
		tomorrow := data == cbTomorrow
		return b.withDefaultCity(ctx, chatID, func(city string) []Reply {
			return []Reply{text("%s", b.weather.ForecastText(ctx, city, tomorrow)), mainMenu(city)}
		})

	case cbChooseCity:
		cities, err := b.store.Cities(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("list cities: %w", err)
		}
		if len(cities) == 0 {
			return []Reply{text(msgNoSavedCities)}, nil
		}
		r := text(msgYourCities)
		r.Inline = CityChoiceMenu(cities)
		return []Reply{r}, nil

	case cbAddCity:
		return []Reply{text(msgEnterCity)}, nil

	case cbSubscribe:
		current := "not set"
		hhmm, err := b.store.Subscription(ctx, chatID)
		switch {
		case err == nil:
			current = hhmm
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("get subscription: %w", err)
		}
		r := text(msgSubscriptionMenu, current)
		r.Inline = SubscriptionMenu()
		return []Reply{r}, nil

	case cbSubSet:
		return []Reply{text(msgEnterTime)}, nil

	case cbSubCancel:
		if err := b.store.DeleteSubscription(ctx, chatID); err != nil {
			return nil, fmt.Errorf("delete subscription: %w", err)
		}
		menu, err := b.menuOrPrompt(ctx, chatID, msgNoDefaultCity)
		if err != nil {
			return nil, err
		}
		return []Reply{text(msgSubscriptionCancelled), menu}, nil

	case cbHelp:
		city, err := b.defaultCity(ctx, chatID)
		if err != nil {
			return nil, err
		}
		help := text("%s", helpText(city))
		if city == "" {
			return []Reply{help, text(msgNoDefaultCity)}, nil
		}
		return []Reply{help, mainMenu(city)}, nil

	case cbBackMain:
		menu, err := b.menuOrPrompt(ctx, chatID, msgNoDefaultCity)
		if err != nil {
			return nil, err
		}
		return []Reply{menu}, nil
	}

	log.Printf("DEBUG: bot: chat %d: ignoring unknown callback %q", chatID, data)
	return nil, nil
}

// Digest builds the daily subscription message for a city.
func (b *Bot) Digest(ctx context.Context, city string) Reply {
	return text(msgDigest, b.weather.ForecastText(ctx, city, false))
}

func (b *Bot) showCity(ctx context.Context, city string) []Reply {
	actions := text(msgChooseAction)
	actions.Inline = NewCityActions(city)
	return []Reply{text("%s", b.weather.CurrentText(ctx, city)), actions}
}

// defaultCity returns "" when the chat has no default city.
func (b *Bot) defaultCity(ctx context.Context, chatID int64) (string, error) {
	city, err := b.store.DefaultCity(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get default city: %w", err)
	}
	return city, nil
}

func (b *Bot) withDefaultCity(ctx context.Context, chatID int64, fn func(city string) []Reply) ([]Reply, error) {
	city, err := b.defaultCity(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if city == "" {
		return []Reply{text(msgNoDefaultCity)}, nil
	}
	return fn(city), nil
}

func (b *Bot) menuOrPrompt(ctx context.Context, chatID int64, prompt string) (Reply, error) {
	city, err := b.defaultCity(ctx, chatID)
	if err != nil {
		return Reply{}, err
	}
	if city == "" {
		return text("%s", prompt), nil
	}
	return mainMenu(city), nil
}

func mainMenu(city string) Reply {
	r := text(msgDefaultCity, city)
	r.Inline = MainMenu(city)
	return r
}
