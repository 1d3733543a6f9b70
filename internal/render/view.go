package render

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/state"
)

// Kind selects which panel a frontend draws.
type Kind int

const (
	KindLoading Kind = iota
	KindCard
	KindError
	KindRecovery
)

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindError:
		return "error"
	case KindRecovery:
		return "recovery"
	default:
		return "loading"
	}
}

// Placeholders shown when the API omits a field.
const (
	PlaceholderName   = "not found"
	PlaceholderAmount = "-"
)

// TimestampLayout renders the "as of" line: hours and minutes, then the date.
const TimestampLayout = "15:04 2.1.2006"

// Card is the success panel.
type Card struct {
	Identity string
	UserID   string
	Amount   string
	Currency string
	AsOf     string
}

// View is exactly one of the four panels. Only the fields for Kind are set.
type View struct {
	Kind    Kind
	Card    Card
	Message string
	Seq     uint64
}

// Input is everything Compute needs.
type Input struct {
	Snapshot state.Snapshot
	Settings settings.Settings
	Locale   language.Tag
	Location *time.Location
}

// ErrInconsistent marks a snapshot that is neither loading, a record nor an error.
var ErrInconsistent = errors.New("inconsistent snapshot")

// Compute maps a snapshot to a view. A non-nil error is a render fault.
func Compute(in Input) (View, error) {
	snap := in.Snapshot
	if snap.Loading() {
		if snap.Record != nil || snap.Err != nil {
			return View{}, fmt.Errorf("%w: data present before first result", ErrInconsistent)
		}
		return View{Kind: KindLoading}, nil
	}

	if snap.Err != nil {
		if snap.Record != nil {
			return View{}, fmt.Errorf("%w: record and error both set", ErrInconsistent)
		}
		return View{Kind: KindError, Message: snap.Err.Error(), Seq: snap.Seq}, nil
	}

	if snap.Record == nil {
		return View{}, fmt.Errorf("%w: result without record", ErrInconsistent)
	}

	card, err := buildCard(*snap.Record, in)
	if err != nil {
		return View{}, err
	}
	return View{Kind: KindCard, Card: card, Seq: snap.Seq}, nil
}

func buildCard(rec balance.Record, in Input) (Card, error) {
	identity := rec.FullName()
	if identity == "" {
		identity = strings.TrimSpace(in.Settings.RepresentativeName)
	}
	if identity == "" {
		identity = PlaceholderName
	}

	amount := PlaceholderAmount
	if rec.Amount != nil {
		v := *rec.Amount
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Card{}, fmt.Errorf("render amount: %v is not finite", v)
		}
		tag := in.Locale
		if tag == language.Und {
			tag = language.MustParse("he-IL")
		}
		amount = balance.FormatAmount(v, tag)
	}

	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	asOf := ""
	if !in.Snapshot.LastUpdated.IsZero() {
		asOf = in.Snapshot.LastUpdated.In(loc).Format(TimestampLayout)
	}

	return Card{
		Identity: identity,
		UserID:   strings.TrimSpace(in.Settings.UserID),
		Amount:   amount,
		Currency: balance.Currency,
		AsOf:     asOf,
	}, nil
}
