package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-pianoroll/debug"
)

// Output sends note triggers to a MIDI out port. Trigger is fire-and-forget:
// NoteOn immediately, NoteOff on a timer, matching how the engine treats
// audio (it never awaits completion).
type Output struct {
	portName string
	channel  uint8
	velocity uint8

	mu   sync.Mutex
	send func(gomidi.Message) error
}

// NewOutput opens the named MIDI out port, or the first available port when
// name is empty.
func NewOutput(portName string, channel uint8) (*Output, error) {
	o := &Output{
		portName: portName,
		channel:  channel,
		velocity: 100,
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Output) open() error {
	ports := gomidi.GetOutPorts()
	if len(ports) == 0 {
		return fmt.Errorf("no MIDI output ports available")
	}
	for _, port := range ports {
		if o.portName == "" || port.String() == o.portName {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				return fmt.Errorf("open MIDI port %s: %w", port.String(), err)
			}
			o.send = sender
			debug.Log("midi", "opened out port %q", port.String())
			return nil
		}
	}
	return fmt.Errorf("MIDI output port %q not found", o.portName)
}

// Trigger plays a note for the given wall duration.
func (o *Output) Trigger(pitch uint8, duration time.Duration) error {
	return o.play(Trigger{Pitch: pitch, Duration: duration})
}

func (o *Output) play(ev Trigger) error {
	o.mu.Lock()
	send := o.send
	o.mu.Unlock()
	if send == nil {
		return fmt.Errorf("MIDI output closed")
	}
	if err := send(gomidi.NoteOn(o.channel, ev.Pitch, o.velocity)); err != nil {
		return err
	}
	time.AfterFunc(ev.Duration, func() {
		o.mu.Lock()
		send := o.send
		o.mu.Unlock()
		if send != nil {
			send(gomidi.NoteOff(o.channel, ev.Pitch))
		}
	})
	return nil
}

// Close silences the port and releases the driver.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send != nil {
		// All-notes-off so pending NoteOffs we drop don't leave hung notes.
		o.send(gomidi.ControlChange(o.channel, 123, 0))
		o.send = nil
	}
	gomidi.CloseDriver()
}

// Silent is an AudioSink that plays nothing. Used when no MIDI port exists;
// the roll still scrolls.
type Silent struct{}

// Trigger drops the note.
func (Silent) Trigger(pitch uint8, duration time.Duration) error {
	return nil
}
