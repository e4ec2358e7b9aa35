// Package myaudio handles audio capture and buffering for realtime analysis.
//
// The capture path is: a malgo device callback writes raw S16LE bytes into a
// bounded ring buffer, the analysis monitor drains the ring buffer, converts
// the bytes to float32 samples and feeds them through a WindowBuffer that
// emits fixed-length, non-overlapping analysis windows in arrival order.
package myaudio
