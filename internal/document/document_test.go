package document

import (
	"image"
	"image/color"
	"testing"
)

func testImage(w, h int) image.Image {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestSelection(t *testing.T) {
	t.Run("drops duplicates and keeps order", func(t *testing.T) {
		sel := NewSelection(3, 1, 3, 2)
		ids := sel.IDs()
		if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
			t.Errorf("unexpected ids: %v", ids)
		}
	})

	t.Run("single", func(t *testing.T) {
		if _, ok := NewSelection(1, 2).Single(); ok {
			t.Error("expected group selection not to be single")
		}
		id, ok := NewSelection(7).Single()
		if !ok || id != 7 {
			t.Errorf("expected single 7, got %v %v", id, ok)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if !NewSelection().IsEmpty() {
			t.Error("expected empty selection")
		}
	})
}

func TestSnapshot_EditDoesNotAlias(t *testing.T) {
	d := NewDraft(testImage(100, 100))
	d.Regions = []TextRegion{{ID: 1, Box: image.Rect(0, 0, 10, 10), Text: "a"}}
	d.Select(1)
	snap := d.Publish()

	// Mutating the draft after publishing must not leak into the snapshot.
	d.Regions[0].Text = "changed"

	edit := snap.Edit()
	edit.Regions[0].Text = "edited"
	edit.Select()

	r, ok := snap.Region(1)
	if !ok || r.Text != "a" {
		t.Fatalf("snapshot region was mutated: %+v", r)
	}
	if snap.Selection().IsEmpty() {
		t.Error("snapshot selection was mutated")
	}

	regions := snap.Regions()
	regions[0].Text = "copy"
	if r, _ := snap.Region(1); r.Text != "a" {
		t.Error("Regions() returned an alias")
	}
}

func TestDraft_Publish(t *testing.T) {
	StrictInvariants = false
	defer func() { StrictInvariants = strictInvariants }()

	t.Run("clips boxes to the image", func(t *testing.T) {
		d := NewDraft(testImage(50, 50))
		d.Regions = []TextRegion{
			{ID: 1, Box: image.Rect(40, 40, 60, 60)},
			{ID: 2, Box: image.Rect(70, 70, 80, 80)},
		}
		snap := d.Publish()
		if snap.Len() != 1 {
			t.Fatalf("expected 1 region, got %d", snap.Len())
		}
		if got := snap.At(0).Box; got != image.Rect(40, 40, 50, 50) {
			t.Errorf("expected clipped box, got %v", got)
		}
	})

	t.Run("prunes dangling selection", func(t *testing.T) {
		d := NewDraft(testImage(50, 50))
		d.Regions = []TextRegion{{ID: 1, Box: image.Rect(0, 0, 5, 5)}}
		d.Select(1, 9)
		snap := d.Publish()
		if got := snap.Selection().IDs(); len(got) != 1 || got[0] != 1 {
			t.Errorf("expected selection [1], got %v", got)
		}
	})

	t.Run("strict mode panics", func(t *testing.T) {
		StrictInvariants = true
		defer func() {
			StrictInvariants = false
			if recover() == nil {
				t.Error("expected panic in strict mode")
			}
		}()
		d := NewDraft(testImage(50, 50))
		d.Select(4)
		d.Publish()
	})
}

func TestSnapshot_WithSelection(t *testing.T) {
	d := NewDraft(testImage(20, 20))
	d.Regions = []TextRegion{{ID: 1, Box: image.Rect(0, 0, 5, 5)}, {ID: 2, Box: image.Rect(5, 5, 9, 9)}}
	base := d.Publish()

	next := base.WithSelection(NewSelection(2, 5))
	if got := next.Selection().IDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected selection [2], got %v", got)
	}
	if !base.Selection().IsEmpty() {
		t.Error("base snapshot selection changed")
	}
	if base.Equal(next) {
		t.Error("snapshots with different selections compare equal")
	}
	if !next.WithSelection(Selection{}).Equal(base) {
		t.Error("clearing the selection should restore equality")
	}
}

// sliceImage is a value-type image.Image whose dynamic type is not
// comparable.
type sliceImage struct {
	pix  []uint8
	rect image.Rectangle
}

func (m sliceImage) ColorModel() color.Model { return color.GrayModel }
func (m sliceImage) Bounds() image.Rectangle { return m.rect }
func (m sliceImage) At(x, y int) color.Color { return color.Gray{} }

func TestSnapshot_EqualImageIdentity(t *testing.T) {
	img := sliceImage{pix: make([]uint8, 100), rect: image.Rect(0, 0, 10, 10)}

	t.Run("non-comparable image", func(t *testing.T) {
		s := New(img)
		if !s.Equal(s) {
			t.Error("expected snapshot to equal itself")
		}
		if !s.Edit().Publish().Equal(s) {
			t.Error("expected an unchanged draft to publish an equal snapshot")
		}
	})

	t.Run("separately attached images differ", func(t *testing.T) {
		if New(img).Equal(New(img)) {
			t.Error("expected independent attachments to compare unequal")
		}
	})
}

func TestDraft_ReplaceImage(t *testing.T) {
	d := NewDraft(testImage(100, 100))
	d.Regions = []TextRegion{
		{ID: 1, Box: image.Rect(0, 0, 10, 10)},
		{ID: 2, Box: image.Rect(50, 20, 80, 30)},
		{ID: 3, Box: image.Rect(70, 70, 90, 90)},
	}
	d.Select(2, 3)
	base := d.Publish()

	next := base.Edit()
	next.ReplaceImage(testImage(60, 40))
	got := next.Publish()

	if got.Bounds() != image.Rect(0, 0, 60, 40) {
		t.Fatalf("unexpected bounds %v", got.Bounds())
	}
	if got.Len() != 2 {
		t.Fatalf("expected region 3 to be dropped, got %d regions", got.Len())
	}
	if r, _ := got.Region(2); r.Box != image.Rect(50, 20, 60, 30) {
		t.Errorf("expected region 2 clipped, got %v", r.Box)
	}
	if ids := got.Selection().IDs(); len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected selection [2], got %v", ids)
	}
	if got.Equal(base) {
		t.Error("expected a replaced image to change the snapshot")
	}
	if base.Len() != 3 || base.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Error("source snapshot changed")
	}
}

func TestClip(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	if _, ok := Clip(image.Rect(120, 0, 130, 10), bounds); ok {
		t.Error("expected box outside bounds to be dropped")
	}
	got, ok := Clip(image.Rect(-5, -5, 10, 10), bounds)
	if !ok || got != image.Rect(0, 0, 10, 10) {
		t.Errorf("unexpected clip result %v %v", got, ok)
	}
}

func TestEnvelope(t *testing.T) {
	env := Envelope([]TextRegion{
		{Box: image.Rect(0, 0, 10, 10)},
		{Box: image.Rect(20, 5, 30, 40)},
	})
	if env != image.Rect(0, 0, 30, 40) {
		t.Errorf("unexpected envelope %v", env)
	}
}
