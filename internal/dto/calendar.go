package dto

// WorkingDaysResponse lists the instructional days of a period.
type WorkingDaysResponse struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Count int      `json:"count"`
	Days  []string `json:"days"`
}
