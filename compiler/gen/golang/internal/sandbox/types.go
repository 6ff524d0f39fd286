// Package sandbox holds model types and the builders the go target renders
// for them. The renderer tests compare fresh output against these files.
package sandbox

type Time struct {
	From string
	To   string
}

type DashboardLink struct {
	Title string
	URL   string
}

type StringOrBool struct {
	ValString string
	ValBool   bool
}

type Dashboard struct {
	ID         int64
	Title      string
	Time       *Time
	Links      []DashboardLink
	SingleLink *DashboardLink
	Labels     map[string]string
	Refresh    *StringOrBool
}
