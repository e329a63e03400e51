// Package dmi implements a reader and writer for BYOND icon files (.dmi).
//
// A DMI file is a regular PNG image holding a grid of equally sized icon
// images, plus a zTXt chunk with the keyword "Description" which names the
// icon states and says how many directions and animation frames each of them
// has. Images are stored row-major, state after state; within a state, frame
// after frame, and within a frame, direction after direction in the order
// given by DirOrdering.
//
// Only version 4.0 of the description format is written. Older files are read
// as long as their description parses.
package dmi
