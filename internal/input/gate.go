package input

import "time"

// Gate ayrık aksiyonlar arasında en az Interval kadar süre olmasını sağlar.
// Aynı mantıksal aksiyonu üretebilen tüm kaynaklar (gamepad yoklaması,
// klavye) aynı Gate örneğini paylaşmalıdır.
type Gate struct {
	Interval time.Duration

	last  time.Time
	fired bool
}

func NewGate(interval time.Duration) *Gate {
	return &Gate{Interval: interval}
}

// TryFire now-last >= Interval ise true döner ve now'ı kaydeder.
// Aksi halde false döner ve durumu değiştirmez.
func (g *Gate) TryFire(now time.Time) bool {
	if g.fired && now.Sub(g.last) < g.Interval {
		return false
	}
	g.fired = true
	g.last = now
	return true
}

// Reset geçmişi temizler.
func (g *Gate) Reset() {
	g.fired = false
	g.last = time.Time{}
}

// Cooldown modal bir pencere kapandıktan sonra girdiyi bir süre karantinaya alır,
// böylece pencereyi kapatan basış bir sonraki adımda yeni komut olarak okunmaz.
type Cooldown struct {
	Duration time.Duration
	until    time.Time
}

func NewCooldown(d time.Duration) *Cooldown {
	return &Cooldown{Duration: d}
}

// Arm karantinayı now+Duration'a kadar başlatır.
func (c *Cooldown) Arm(now time.Time) {
	c.until = now.Add(c.Duration)
}

// Blocked now < until.
func (c *Cooldown) Blocked(now time.Time) bool {
	return now.Before(c.until)
}

// Until karantinanın bittiği an.
func (c *Cooldown) Until() time.Time { return c.until }
