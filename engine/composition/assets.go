package composition

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/decorator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/loader"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
)

var (
	errNoWater = errors.New("no water surface in the current scene")
	errNoTrack = errors.New("no track in the current scene")
)

// requestAssets schedules the optional assets of d under the current generation.
func (r *root) requestAssets(d common.Discipline) {
	if r.loader == nil {
		return
	}
	token := r.generation
	request := func(kind loader.AssetKind, path string) {
		if path == "" {
			return
		}
		r.loader.Request(kind, path, token, r.post)
	}

	if d.IsBoat() {
		request(loader.AssetTexture, r.assets.WaterNormals)
		return
	}
	request(loader.AssetModel, r.assets.Overlay)
	request(loader.AssetFont, r.assets.Font)
}

// post is the async delivery callback. It runs on a loader goroutine and only
// queues the result for the next Frame.
func (r *root) post(res loader.Result) {
	r.mailboxMu.Lock()
	r.mailbox = append(r.mailbox, res)
	r.mailboxMu.Unlock()
}

func (r *root) drainMailbox() {
	r.mailboxMu.Lock()
	pending := r.mailbox
	r.mailbox = nil
	r.mailboxMu.Unlock()

	for _, res := range pending {
		r.apply(res)
	}
}

// apply attaches one completed load. Results of another generation, or
// arriving while Inactive, are dropped; imported data is never tracked, so
// dropping it releases nothing. Failures are logged and the scene carries on.
func (r *root) apply(res loader.Result) {
	log := r.logger.With().
		Str("asset", res.Kind.String()).
		Str("path", res.Path).
		Uint64("token", res.Token).
		Logger()

	if !r.state.Active || res.Token != r.generation {
		log.Debug().Uint64("generation", r.generation).Msg("discarding stale asset")
		return
	}
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("asset load failed")
		return
	}

	var err error
	switch res.Kind {
	case loader.AssetTexture:
		err = r.applyWaterNormals(res.Texture)
	case loader.AssetModel:
		err = r.applyOverlay(res.Model)
	case loader.AssetFont:
		err = r.applyLabel(res.Font)
	}
	if err != nil {
		log.Warn().Err(err).Msg("asset not applied")
		return
	}
	log.Debug().Dur("elapsed", res.Elapsed).Msg("asset applied")
}

func (r *root) applyWaterNormals(tex *common.ImportedTexture) error {
	if r.statics == nil || r.statics.waterMaterial == nil {
		return errNoWater
	}
	if tex == nil {
		return errors.New("empty texture result")
	}
	tex.SamplerData = &common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		RepeatU:      WaterNormalRepeat,
		RepeatV:      WaterNormalRepeat,
	}
	r.textures = append(r.textures, r.tracker.Track(resource.KindTexture, tex.Name))
	r.statics.waterMaterial.SetTexture(tex)
	return nil
}

func (r *root) applyOverlay(im *model.ImportedModel) error {
	mat := r.trackMaterial()
	if r.track == nil || mat == nil {
		return errNoTrack
	}
	obj, err := decorator.NewOverlay(im, r.track, mat, r.tracker)
	if err != nil {
		return err
	}
	r.scene.Add(obj)
	return nil
}

func (r *root) applyLabel(font *loader.Font) error {
	if r.track == nil {
		return errNoTrack
	}
	if font == nil {
		return errors.New("empty font result")
	}
	obj, err := decorator.NewLabel(font.Layout(decorator.LabelText), font.Resolution, r.tracker)
	if err != nil {
		return err
	}
	r.scene.Add(obj)
	return nil
}
