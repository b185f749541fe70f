//go:build rp2040 || rp2350

package main

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Log lines are mirrored to UART0 alongside USB CDC, so bring-up without
// a USB host still shows boot progress.
func consoleInit() {
	_ = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
}

func logln(s string) {
	println(s)
	_, _ = uartx.UART0.Write([]byte(s + "\r\n"))
}
