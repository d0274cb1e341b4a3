package catalog

import "github.com/handiism/scorebook/internal/model"

// SongRow is one row of the songs table.
type SongRow struct {
	ID       int
	Title    string
	Composer string
	Sub      string
	Tags     []string
}

// ArrangementRow is one row of the arrangements table. Name is empty for
// untitled arrangements.
type ArrangementRow struct {
	ID     int
	SongID int
	Name   string
}

// PartRow is one row of the parts table. Part ids are assigned while
// flattening since the model does not number parts.
type PartRow struct {
	ID            int
	ArrangementID int
	Name          string
	Instrument    string
}

// FileRow is one row of the files table. PartID is zero for files that
// belong to the arrangement as a whole.
type FileRow struct {
	ArrangementID int
	PartID        int
	URL           string
	Extension     string
}

// Rows is the relational form of a collection.
type Rows struct {
	Songs        []SongRow
	Arrangements []ArrangementRow
	Parts        []PartRow
	Files        []FileRow
}

// Flatten converts songs into table rows in model order.
func Flatten(songs []*model.Song) Rows {
	var (
		rows   Rows
		song   *model.Song
		arr    *model.Arrangement
		partID int
		nextID int
	)
	for _, s := range songs {
		s.Visit(func(e model.Entity) {
			switch v := e.(type) {
			case *model.Song:
				song = v
				rows.Songs = append(rows.Songs, SongRow{
					ID:       v.ID,
					Title:    v.Title,
					Composer: v.Composer,
					Sub:      v.Sub,
					Tags:     v.Tags,
				})
			case *model.Arrangement:
				arr, partID = v, 0
				rows.Arrangements = append(rows.Arrangements, ArrangementRow{
					ID:     v.ID,
					SongID: song.ID,
					Name:   v.DisplayName(),
				})
			case *model.Part:
				nextID++
				partID = nextID
				rows.Parts = append(rows.Parts, PartRow{
					ID:            partID,
					ArrangementID: arr.ID,
					Name:          v.Name,
					Instrument:    string(v.Instrument),
				})
			case *model.CollectionFile:
				rows.Files = append(rows.Files, FileRow{
					ArrangementID: arr.ID,
					PartID:        partID,
					URL:           v.URL,
					Extension:     v.Extension,
				})
			}
		})
	}
	return rows
}
