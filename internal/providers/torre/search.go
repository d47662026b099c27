package torre

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	SearchPath   = "/entities/_search"
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrMissingIdentity rejects a row that carries neither ggId nor ardaId.
var ErrMissingIdentity = errors.New("search row has no identity")

type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResultItem, error)
}

type searchPayload struct {
	Query        string   `json:"query"`
	IdentityType string   `json:"identityType"`
	Limit        int      `json:"limit"`
	Meta         bool     `json:"meta"`
	Location     string   `json:"location,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Remote       *bool    `json:"remote,omitempty"`
}

type searchEnvelope struct {
	Results []any `json:"results"`
}

// Search issues one provider search and returns the normalized rows in
// provider order. Rows without identity are skipped.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResultItem, error) {
	const op = "torre.Search"

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Search query is required", nil)
	}

	payload := searchPayload{
		Query:        query,
		IdentityType: "person",
		Limit:        clampLimit(req.Limit),
		Meta:         true,
	}
	if f := req.Filters; f != nil {
		payload.Location = strings.TrimSpace(f.Location)
		if len(f.Skills) > 0 {
			payload.Skills = f.Skills
		}
		payload.Remote = f.Remote
	}

	var env searchEnvelope
	if err := c.do(ctx, http.MethodPost, c.searchBase, SearchPath, payload, &env); err != nil {
		return nil, utils.Wrap(op, err)
	}

	out := make([]models.SearchResultItem, 0, len(env.Results))
	for i, r := range env.Results {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		item, err := NormalizeRow(row)
		if err != nil {
			c.log.WithFields(logrus.Fields{"index": i, "query": query}).WithError(err).Warn("skipping search row")
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

type rawRow struct {
	GGID     string `mapstructure:"ggId"`
	ArdaID   string `mapstructure:"ardaId"`
	PublicID string `mapstructure:"publicId"`
	Username string `mapstructure:"username"`
	Name     string `mapstructure:"name"`
	Headline string `mapstructure:"professionalHeadline"`

	ImageURL         string `mapstructure:"imageUrl"`
	Picture          string `mapstructure:"picture"`
	Image            string `mapstructure:"image"`
	Avatar           string `mapstructure:"avatar"`
	PictureThumbnail string `mapstructure:"pictureThumbnail"`
	ThumbnailURL     string `mapstructure:"thumbnailUrl"`
	Thumbnail        string `mapstructure:"thumbnail"`

	Location      any            `mapstructure:"location"`
	Verified      bool           `mapstructure:"verified"`
	Weight        float64        `mapstructure:"weight"`
	PageRank      float64        `mapstructure:"pageRank"`
	Completion    float64        `mapstructure:"completion"`
	TotalStrength int            `mapstructure:"totalStrength"`
	IsSearchable  bool           `mapstructure:"isSearchable"`
	Meta          map[string]any `mapstructure:"_meta"`
}

func decodeLoose(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// NormalizeRow maps one raw provider row to a SearchResultItem.
//
// picture:   imageUrl, picture, image, avatar
// thumbnail: imageUrl, pictureThumbnail, thumbnailUrl, thumbnail, then picture
// id:        ggId, then ardaId
func NormalizeRow(raw map[string]any) (models.SearchResultItem, error) {
	var r rawRow
	if err := decodeLoose(raw, &r); err != nil {
		return models.SearchResultItem{}, err
	}

	id := firstNonEmpty(r.GGID, r.ArdaID)
	if id == "" {
		return models.SearchResultItem{}, ErrMissingIdentity
	}

	picture := firstNonEmpty(r.ImageURL, r.Picture, r.Image, r.Avatar)
	thumb := firstNonEmpty(r.ImageURL, r.PictureThumbnail, r.ThumbnailURL, r.Thumbnail, picture)

	return models.SearchResultItem{
		ID:               id,
		PublicID:         r.PublicID,
		Username:         r.Username,
		Name:             r.Name,
		Headline:         r.Headline,
		Picture:          picture,
		PictureThumbnail: thumb,
		Location:         normalizeLocation(r.Location),
		RankScore:        r.PageRank,
		Weight:           r.Weight,
		Completion:       r.Completion,
		TotalStrength:    r.TotalStrength,
		Verified:         r.Verified,
		IsSearchable:     r.IsSearchable,
		MetaMatch:        metaMatch(r.Meta),
	}, nil
}

func normalizeLocation(v any) *models.Location {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return &models.Location{Name: s}
		}
	case map[string]any:
		var loc models.Location
		if err := decodeLoose(t, &loc); err == nil && loc.Name != "" {
			return &loc
		}
	}
	return nil
}

func metaMatch(meta map[string]any) bool {
	if meta == nil {
		return false
	}
	for _, k := range []string{"match", "textMatch"} {
		if b, ok := meta[k].(bool); ok && b {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
