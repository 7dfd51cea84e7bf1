package input

import (
	"context"
	"time"
)

const (
	DefaultPollInterval     = 25 * time.Millisecond
	DefaultGrace            = 120 * time.Millisecond
	DefaultTriggerThreshold = 128
)

// Snapshot bir yoklama adımının sonucudur.
type Snapshot struct {
	At        time.Time
	Held      Buttons // şu an basılı (mandallı düğmeler hariç)
	Pressed   Buttons // bu adımda yeni basılanlar (edge set)
	Connected bool
	Settling  bool // yeniden başlatma sonrası bekleme süresinde

	LeftTrigger  uint8
	RightTrigger uint8
}

// Poller sabit aralıkla cihazı okur ve bir önceki okumaya göre edge set üretir.
//
// Yeniden başlatıldıktan sonraki ilk okuma yalnızca önceki durumu tohumlar.
// O anda basılı olan düğmeler ve bekleme süresi (grace) içinde basılanlar
// "mandallanır": bırakılana kadar ne edge ne de basılı durum üretirler.
type Poller struct {
	Device    Device
	Player    int
	Interval  time.Duration
	Grace     time.Duration
	Threshold uint8

	seeded    bool
	startedAt time.Time
	prevHeld  Buttons
	latched   Buttons
	connected bool

	// OnConnectChange bağlantı durumu değiştiğinde çağrılır (loglama için).
	OnConnectChange func(connected bool)
}

// NewPoller varsayılan değerlerle bir poller oluşturur.
func NewPoller(dev Device, player int) *Poller {
	if dev == nil {
		dev = NoDevice{}
	}
	return &Poller{
		Device:    dev,
		Player:    player,
		Interval:  DefaultPollInterval,
		Grace:     DefaultGrace,
		Threshold: DefaultTriggerThreshold,
	}
}

// Restart bir sonraki örneklemenin durumu yeniden tohumlamasını sağlar.
func (p *Poller) Restart() {
	p.seeded = false
}

// Sample cihazı bir kez okur ve snapshot üretir.
func (p *Poller) Sample(now time.Time) Snapshot {
	raw, ok := p.Device.Poll(p.Player)
	if !ok {
		raw = RawState{}
	}
	if ok != p.connected {
		p.connected = ok
		if p.OnConnectChange != nil {
			p.OnConnectChange(ok)
		}
	}

	current := raw.Buttons &^ Buttons(ButtonLeftTrigger|ButtonRightTrigger)
	if raw.LeftTrigger > p.Threshold {
		current |= Buttons(ButtonLeftTrigger)
	}
	if raw.RightTrigger > p.Threshold {
		current |= Buttons(ButtonRightTrigger)
	}

	snap := Snapshot{
		At:           now,
		Connected:    ok,
		LeftTrigger:  raw.LeftTrigger,
		RightTrigger: raw.RightTrigger,
	}

	if !p.seeded {
		p.seeded = true
		p.startedAt = now
		p.latched = current
		p.prevHeld = 0
		snap.Settling = p.Grace > 0
		return snap
	}

	// Bırakılan düğmeler mandaldan düşer.
	p.latched &= current
	if now.Sub(p.startedAt) < p.Grace {
		p.latched |= current
		snap.Settling = true
	}

	held := current &^ p.latched
	snap.Held = held
	snap.Pressed = held &^ p.prevHeld
	p.prevHeld = held
	return snap
}

// Run Interval aralıklarla örnekler ve out kanalına yayınlar. Tüketici
// gerideyse snapshot bekletilmez, atlanır. ctx iptal edilince döner.
func (p *Poller) Run(ctx context.Context, out chan<- Snapshot) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.Restart()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			snap := p.Sample(now)
			select {
			case out <- snap:
			default:
			}
		}
	}
}
