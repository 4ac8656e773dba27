// midiports lists MIDI output ports and sends a test note, for picking the
// portName to put in config.yaml.
package main

import (
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	defer gomidi.CloseDriver()

	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "test":
		name := ""
		if len(os.Args) > 2 {
			name = os.Args[2]
		}
		testNote(name)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("midiports - MIDI output helper")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - list MIDI output ports")
	fmt.Println("  test [port]    - play middle C on a port (first port if omitted)")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		if len(outs) == 0 {
			fmt.Println("  (none)")
			return
		}
		for i, out := range outs {
			fmt.Printf("  [%d] %s\n", i, out.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("  timed out enumerating ports")
	}
}

func testNote(name string) {
	outs := gomidi.GetOutPorts()
	if len(outs) == 0 {
		fmt.Println("no MIDI output ports available")
		return
	}

	for _, out := range outs {
		if name != "" && out.String() != name {
			continue
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			fmt.Printf("open %s: %v\n", out.String(), err)
			return
		}
		fmt.Printf("playing middle C on %s\n", out.String())
		send(gomidi.NoteOn(0, 60, 100))
		time.Sleep(500 * time.Millisecond)
		send(gomidi.NoteOff(0, 60))
		return
	}
	fmt.Printf("port %q not found\n", name)
}
