//go:build !rp2040 && !rp2350

package main

func consoleInit() {}

func logln(s string) { println(s) }
