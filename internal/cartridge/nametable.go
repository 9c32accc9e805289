package cartridge

// nametableSet models a mapper's four nametable slots, each aliasing one of
// up to four physical 1-KB banks. Mirroring modes are realized purely by
// repointing slots at shared banks, matching the hardware's wiring of the
// PPU's A10/A11 address lines rather than copying data.
type nametableSet struct {
	banks [4][1024]uint8
	slot  [4]*[1024]uint8
}

func newNametableSet() *nametableSet {
	n := &nametableSet{}
	n.setHorizontal()
	return n
}

func (n *nametableSet) setHorizontal() {
	n.slot[0] = &n.banks[0]
	n.slot[1] = &n.banks[0]
	n.slot[2] = &n.banks[1]
	n.slot[3] = &n.banks[1]
}

func (n *nametableSet) setVertical() {
	n.slot[0] = &n.banks[0]
	n.slot[1] = &n.banks[1]
	n.slot[2] = &n.banks[0]
	n.slot[3] = &n.banks[1]
}

func (n *nametableSet) setSingleScreen(bank int) {
	for i := range n.slot {
		n.slot[i] = &n.banks[bank]
	}
}

func (n *nametableSet) setFourScreen() {
	for i := range n.slot {
		n.slot[i] = &n.banks[i]
	}
}

func (n *nametableSet) read(addr uint16) uint8 {
	table := (addr >> 10) & 0x03
	return n.slot[table][addr&0x03FF]
}

func (n *nametableSet) write(addr uint16, val uint8) {
	table := (addr >> 10) & 0x03
	n.slot[table][addr&0x03FF] = val
}
