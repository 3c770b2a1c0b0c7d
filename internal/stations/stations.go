// Package stations holds the static station reference data used for display.
// The table mirrors the upstream master data; it is lookup-only and carries
// no logic beyond name resolution.
package stations

import "sort"

// Station is one railway station in the reference table.
type Station struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var byID = map[int64]string{
	1:  "Hà Nội",
	2:  "Phủ Lý",
	3:  "Nam Định",
	4:  "Ninh Bình",
	5:  "Thanh Hóa",
	6:  "Vinh",
	7:  "Đồng Hới",
	8:  "Đông Hà",
	9:  "Huế",
	10: "Đà Nẵng",
	11: "Tam Kỳ",
	12: "Quảng Ngãi",
	13: "Diêu Trì",
	14: "Tuy Hòa",
	15: "Nha Trang",
	16: "Tháp Chàm",
	17: "Bình Thuận",
	18: "Biên Hòa",
	19: "Sài Gòn",
	20: "Đà Lạt",
}

// Name resolves a station id to its display name. Unknown ids resolve to the
// empty string.
func Name(id int64) string {
	return byID[id]
}

// List returns all stations ordered by id.
func List() []Station {
	out := make([]Station, 0, len(byID))
	for id, name := range byID {
		out = append(out, Station{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
