package input

import "time"

const (
	DefaultRepeatDelay    = 200 * time.Millisecond
	DefaultRepeatInterval = 50 * time.Millisecond
)

// Direction basılı tutulan yönlü girdinin kimliğidir. 0 "yok" demektir;
// çağıran taraf anlamını belirler (ör. sol=-1, sağ=+1).
type Direction int

const DirectionNone Direction = 0

// Fire Repeater'ın bir adımdaki kararı.
type Fire int

const (
	FireNone Fire = iota
	// FireImmediate yön değişiminde ilk tetik; paylaşılan Gate'ten geçirilmeli.
	FireImmediate
	// FireRepeat basılı tutma sonrası tekrar.
	FireRepeat
)

// Repeater basılı tutulan yönü tekrar eden aksiyonlara çevirir:
// ilk basışta bir kez, Delay sonrasında her Interval'da bir.
type Repeater struct {
	Delay    time.Duration
	Interval time.Duration

	held       Direction
	holdStart  time.Time
	lastRepeat time.Time
}

func NewRepeater(delay, interval time.Duration) *Repeater {
	if delay <= 0 {
		delay = DefaultRepeatDelay
	}
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	return &Repeater{Delay: delay, Interval: interval}
}

// Held şu an takip edilen yön.
func (r *Repeater) Held() Direction { return r.held }

// Update her yoklama adımında çağrılır.
func (r *Repeater) Update(dir Direction, now time.Time) Fire {
	if dir != r.held {
		r.held = dir
		r.holdStart = now
		r.lastRepeat = now
		if dir != DirectionNone {
			return FireImmediate
		}
		return FireNone
	}
	if dir == DirectionNone {
		return FireNone
	}
	if now.Sub(r.holdStart) >= r.Delay && now.Sub(r.lastRepeat) >= r.Interval {
		r.lastRepeat = now
		return FireRepeat
	}
	return FireNone
}

// Sync yönü tetiklemeden kaydeder. Girdi bastırılmışken kullanılır; böylece
// bastırma sırasında basılı tutulan yön, bastırma bitince ani tetik üretmez.
func (r *Repeater) Sync(dir Direction, now time.Time) {
	if dir != r.held {
		r.held = dir
		r.holdStart = now
		r.lastRepeat = now
	}
}

// Reset takibi temizler.
func (r *Repeater) Reset() {
	r.held = DirectionNone
	r.holdStart = time.Time{}
	r.lastRepeat = time.Time{}
}
