package eastmoney

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// listResponse is the clist/get envelope.
type listResponse struct {
	RC   int       `json:"rc"`
	Data *listData `json:"data"`
}

type listData struct {
	Total int      `json:"total"`
	Diff  listRows `json:"diff"`
}

type listRow struct {
	Code string `json:"f12"`
	Name string `json:"f14"`
}

// listRows accepts diff as an array or, with np=2, as an object keyed by
// row index.
type listRows []listRow

func (r *listRows) UnmarshalJSON(data []byte) error {
	var rows []listRow
	if err := json.Unmarshal(data, &rows); err == nil {
		*r = rows
		return nil
	}

	var indexed map[string]listRow
	if err := json.Unmarshal(data, &indexed); err != nil {
		return fmt.Errorf("decode diff: %w", err)
	}

	keys := make([]string, 0, len(indexed))
	for k := range indexed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	rows = make([]listRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, indexed[k])
	}
	*r = rows
	return nil
}

// detailResponse is the stock/get envelope. Data is kept raw and stored as
// the detail payload.
type detailResponse struct {
	RC   int             `json:"rc"`
	Data json.RawMessage `json:"data"`
}

type newsResponse struct {
	Code   int        `json:"code"`
	Msg    string     `json:"msg"`
	Result newsResult `json:"result"`
}

type newsResult struct {
	Articles []newsArticle `json:"cmsArticleWebOld"`
}

type newsArticle struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Date      string `json:"date"`
	MediaName string `json:"mediaName"`
}

type newsQuery struct {
	UID           string          `json:"uid"`
	Keyword       string          `json:"keyword"`
	Type          []string        `json:"type"`
	Client        string          `json:"client"`
	ClientType    string          `json:"clientType"`
	ClientVersion string          `json:"clientVersion"`
	Param         newsQueryParams `json:"param"`
}

type newsQueryParams struct {
	CMSArticleWebOld newsPaging `json:"cmsArticleWebOld"`
}

type newsPaging struct {
	SearchScope string `json:"searchScope"`
	Sort        string `json:"sort"`
	PageIndex   int    `json:"pageIndex"`
	PageSize    int    `json:"pageSize"`
	PreTag      string `json:"preTag"`
	PostTag     string `json:"postTag"`
}
