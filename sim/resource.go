package sim

// usage accumulates busy and idle time for a resource that is created at t=0.
type usage struct {
	Busy       bool
	BusyTime   float64
	IdleTime   float64
	lastChange float64
}

func (u *usage) mark(now float64, busy bool) {
	elapsed := now - u.lastChange
	if u.Busy {
		u.BusyTime += elapsed
	} else {
		u.IdleTime += elapsed
	}
	u.Busy = busy
	u.lastChange = now
}

// close flushes the interval still open at the end of the run.
func (u *usage) close(now float64) {
	u.mark(now, u.Busy)
}

// CPU executes one process slice at a time.
type CPU struct {
	ID         int
	Current    *Process
	Dispatches int
	usage
}

// Available reports whether the CPU can take a dispatch.
func (c *CPU) Available() bool {
	return !c.Busy
}

func (c *CPU) assign(p *Process, now float64) {
	c.mark(now, true)
	c.Current = p
	c.Dispatches++
	p.cpu = c
}

func (c *CPU) release(now float64) {
	if c.Current != nil {
		c.Current.cpu = nil
	}
	c.Current = nil
	c.mark(now, false)
}

// Device serves I/O bursts in arrival order, one process at a time.
type Device struct {
	ID      int
	Current *Process
	Queue   *ReadyQueue
	usage
}

func newDevice(id int) *Device {
	return &Device{ID: id, Queue: &ReadyQueue{}}
}

func (d *Device) assign(p *Process, now float64) {
	d.mark(now, true)
	d.Current = p
}

func (d *Device) release(now float64) {
	d.Current = nil
	d.mark(now, false)
}
