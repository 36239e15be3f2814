package update

import "time"

// jst is the fixed-offset Japan Standard Time zone used for commit messages.
// A fixed zone avoids depending on the host's tzdata.
var jst = time.FixedZone("JST", 9*60*60)

// CommitMessage builds the data-update commit message for the given instant,
// e.g. "データ更新: 2024-01-05 09:03 JST".
func CommitMessage(now time.Time) string {
	return "データ更新: " + now.In(jst).Format("2006-01-02 15:04") + " JST"
}
