package decorator

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/renderer/material"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

const (
	// LabelText is the velodrome title.
	LabelText   = "KCYCLE"
	labelSize   = 5
	labelDepth  = 0.5
	labelHeight = 10

	overlayFill = 0.95
	overlayLift = 0.1
)

// ErrEmptyOverlay is returned when an imported overlay has no usable extent.
var ErrEmptyOverlay = errors.New("decorator: overlay model has no extent")

// NewLabel builds the extruded title floating above the infield, centered on X.
//
// Parameters:
//   - glyphs: the laid-out glyph metrics of LabelText
//   - resolution: the font units per em
//   - tracker: the resource tracker
//
// Returns:
//   - game_object.GameObject: the label node
//   - error: error if no glyph produced geometry
func NewLabel(glyphs []geometry.Glyph, resolution float64, tracker resource.Tracker) (game_object.GameObject, error) {
	mesh, width := geometry.Label(glyphs, geometry.LabelOptions{
		Size:       labelSize,
		Depth:      labelDepth,
		Resolution: resolution,
		Spacing:    0.1,
	})
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("label %q has no printable glyphs", LabelText)
	}

	b := &builder{deps: Deps{Tracker: tracker}}
	mat := b.glowMaterial("label", colorCyan, 0.9)
	return b.element(game_object.KindLabel, "label", mesh, mat,
		game_object.WithPosition([3]float32{-width / 2, labelHeight, 0}),
	), nil
}

// NewOverlay fits an imported decorative model onto the velodrome. The model is
// recentered on its bounding box, scaled uniformly to fill the track extent,
// and laid flat just above the highest point of the track. Each mesh takes its
// own clone of the track material; the imported materials are not used.
//
// Parameters:
//   - im: the imported model
//   - track: the velodrome mesh
//   - trackMaterial: the material to clone per mesh
//   - tracker: the resource tracker for the overlay geometry
//
// Returns:
//   - game_object.GameObject: the overlay node
//   - error: ErrEmptyOverlay if the model has no planar extent
func NewOverlay(im *model.ImportedModel, track *geometry.TrackMesh, trackMaterial material.Material, tracker resource.Tracker) (game_object.GameObject, error) {
	if im == nil || track == nil || trackMaterial == nil {
		return nil, fmt.Errorf("overlay requires a model, a track and a track material")
	}
	bmin, bmax, ok := im.Bounds()
	if !ok {
		return nil, ErrEmptyOverlay
	}
	size := common.Sub3(bmax, bmin)
	if size[0] <= 0 || size[1] <= 0 {
		return nil, fmt.Errorf("%w: size %v", ErrEmptyOverlay, size)
	}
	center := common.Scale3(common.Add3(bmin, bmax), 0.5)

	meshes := lo.FilterMap(im.Meshes, func(m model.ImportedMesh, _ int) (geometry.Mesh, bool) {
		if len(m.Mesh.Vertices) == 0 {
			return geometry.Mesh{}, false
		}
		mesh := m.Mesh
		mesh.Vertices = slices.Clone(m.Mesh.Vertices)
		mesh.Translate(common.Scale3(center, -1))
		return mesh, true
	})
	mats := lo.Times(len(meshes), func(int) material.Material {
		return trackMaterial.Clone()
	})

	ex, ey := track.Params.Extent()
	scale := float32(math.Min(ex/float64(size[0]), ey/float64(size[1])) * overlayFill)

	// Racing-line centroid in track space; world z is -y.
	c := geometry.RacingLine(track).Centroid()
	pos := [3]float32{c[0], track.MaxHeight() + overlayLift, -c[1]}

	mdl := model.NewModel(
		model.WithName(im.Name),
		model.WithMeshes(meshes),
		model.WithMaterials(mats),
		model.WithTracker(tracker),
	)
	return game_object.NewGameObject(
		game_object.WithKind(game_object.KindOverlay),
		game_object.WithName("overlay"),
		game_object.WithModel(mdl),
		game_object.WithPosition(pos),
		game_object.WithRotation(TrackSpace),
		game_object.WithScale([3]float32{scale, scale, scale}),
	), nil
}
