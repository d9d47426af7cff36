package model

// Table is a physical dining table as stored in the `tables` table.
//
// Fields:
//  ID       – primary key identifier.
//  Location – free text such as "Terrace" or "Window".
//  Seats    – number of guests the table accommodates.
type Table struct {
    ID       uint64 `json:"table_id"` // tables.table_id
    Location string `json:"location"` // tables.location
    Seats    uint32 `json:"seats"`    // tables.seats
}
