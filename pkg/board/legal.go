package board

// MaxStep is the longest single checker move, one die.
const MaxStep = 6

// IsLegal reports whether moving the checker on orig to dest is a single checker move
// along its side's track. Off sentinels are legal for their own side; whether bearing
// off is allowed by the dice is for the caller to decide.
func IsLegal(orig, dest Key, pieces Pieces) bool {
	return checkLegal(orig, dest, pieces) == nil
}

func checkLegal(orig, dest Key, pieces Pieces) error {
	p, ok := pieces[orig]
	if !ok || !p.IsChecker() {
		return ErrNotMovable
	}
	if orig == dest {
		return ErrSameSquare
	}
	origCol, _, ok := columnOfKey(orig)
	if !ok {
		return ErrNotMovable
	}
	bar := barColumn(p.Color)
	switch {
	case origCol.isBar() && origCol != bar:
		return ErrNotMovable
	case origCol != bar:
		if _, waiting := pieces[bar.cell(0)]; waiting {
			return ErrIllegal
		}
	}
	if IsOff(dest) {
		if offColor(dest) != p.Color {
			return ErrWrongOff
		}
		if origCol.isBar() {
			return ErrIllegal
		}
		return nil
	}
	destCol, _, ok := columnOfKey(dest)
	if !ok || destCol.isBar() {
		return ErrNotPoint
	}
	if destCol == origCol {
		return ErrSamePoint
	}
	from, to := SquareToPip(orig, p.Color), SquareToPip(dest, p.Color)
	if d := from - to; d < 1 || d > MaxStep {
		return ErrIllegal
	}
	if c, n := (stack{col: destCol, pieces: pieces}).count(); n >= 2 && c != p.Color {
		return ErrBlocked
	}
	return nil
}
