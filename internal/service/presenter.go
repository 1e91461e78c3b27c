package service

import (
	"course_outline_backend/internal/model"
	"course_outline_backend/internal/util"
	"fmt"
)

// ActivityPresenter turns an activity into an opaque render token. Present
// must return util.ErrNotRepresentable for activity types that have no
// navigable view; any other error is a render failure for that one activity.
//
// The icon override is a plain parameter scoped to the single call; a
// presenter must never write it back onto the shared activity.
type ActivityPresenter interface {
	Present(activity model.Activity, icon *model.IconOverride) (model.RenderToken, error)
}

// LinkPresenter is the default presenter: name, view URL and icon URL.
type LinkPresenter struct {
	BaseURL string
}

func NewLinkPresenter(baseURL string) *LinkPresenter {
	return &LinkPresenter{BaseURL: baseURL}
}

func (p *LinkPresenter) Present(activity model.Activity, icon *model.IconOverride) (model.RenderToken, error) {
	if !activity.HasViewableContent {
		return model.RenderToken{}, util.ErrNotRepresentable
	}

	token := model.RenderToken{
		Name:    activity.Name,
		ViewURL: fmt.Sprintf("%s/mod/%s/view/%d", p.BaseURL, activity.ModType, activity.ID),
		IconURL: fmt.Sprintf("%s/theme/icons/%s.svg", p.BaseURL, activity.ModType),
	}
	if icon != nil && icon.URL != "" {
		token.IconURL = icon.URL
	}
	return token, nil
}
