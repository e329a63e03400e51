package dmi

import "fmt"

// Dir is a facing direction, using the same bit values as BYOND's dir
// builtins.
type Dir uint8

const (
	NORTH     = Dir(1)
	SOUTH     = Dir(2)
	EAST      = Dir(4)
	WEST      = Dir(8)
	NORTHEAST = NORTH | EAST
	NORTHWEST = NORTH | WEST
	SOUTHEAST = SOUTH | EAST
	SOUTHWEST = SOUTH | WEST
)

// DirOrdering is the order in which directions of a single frame are laid out
// in the sheet. A state with N directions uses the first N entries.
var DirOrdering = [8]Dir{
	SOUTH,
	NORTH,
	EAST,
	WEST,
	SOUTHEAST,
	SOUTHWEST,
	NORTHEAST,
	NORTHWEST,
}

// String implements the stringer interface.
func (d Dir) String() string {
	switch d {
	case NORTH:
		return "north"
	case SOUTH:
		return "south"
	case EAST:
		return "east"
	case WEST:
		return "west"
	case NORTHEAST:
		return "northeast"
	case NORTHWEST:
		return "northwest"
	case SOUTHEAST:
		return "southeast"
	case SOUTHWEST:
		return "southwest"
	default:
		return fmt.Sprintf("Dir(%d)", uint8(d))
	}
}

// slot returns the position of d among the first dirs entries of
// DirOrdering, or -1.
func (d Dir) slot(dirs int) int {
	for i := 0; i < dirs && i < len(DirOrdering); i++ {
		if DirOrdering[i] == d {
			return i
		}
	}
	return -1
}

// validDirCount reports whether a state may declare n directions.
func validDirCount(n int) bool {
	return n == 1 || n == 4 || n == 8
}
