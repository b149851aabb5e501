package model

// Fields is the kind-specific part of an Event. Each variant reports the
// Kind it belongs to.
type Fields interface {
	Kind() Kind
}

// User is a forge account reference.
type User struct {
	Login string `json:"login"`
}

type CommitAuthor struct {
	Name string `json:"name"`
}

type Commit struct {
	ID       string       `json:"id"`
	Message  string       `json:"message"`
	URL      string       `json:"url"`
	Distinct bool         `json:"distinct"`
	Author   CommitAuthor `json:"author"`
}

type Pusher struct {
	Name string `json:"name"`
}

// PushFields holds a push payload. DistinctCommits is nil when the payload
// did not carry a distinct_commits list.
type PushFields struct {
	Ref             string    `json:"ref"`
	BaseRef         string    `json:"base_ref"`
	Before          string    `json:"before"`
	After           string    `json:"after"`
	Created         bool      `json:"created"`
	Deleted         bool      `json:"deleted"`
	Forced          bool      `json:"forced"`
	Compare         string    `json:"compare"`
	Commits         []Commit  `json:"commits"`
	DistinctCommits *[]Commit `json:"distinct_commits"`
	Pusher          *Pusher   `json:"pusher"`
}

func (*PushFields) Kind() Kind { return KindPush }

// PullRequestMarker is present on issues that are pull requests.
type PullRequestMarker struct {
	HTMLURL string `json:"html_url"`
}

type Issue struct {
	Number      int                `json:"number"`
	Title       string             `json:"title"`
	HTMLURL     string             `json:"html_url"`
	User        User               `json:"user"`
	PullRequest *PullRequestMarker `json:"pull_request"`
}

type Label struct {
	Name string `json:"name"`
}

type Milestone struct {
	Title string `json:"title"`
}

type TitleChange struct {
	From string `json:"from"`
}

// Changes carries the "changes" object of edited and transferred payloads.
type Changes struct {
	Title         *TitleChange `json:"title"`
	OldRepository *Repository  `json:"old_repository"`
	OldIssue      *Issue       `json:"old_issue"`
	NewRepository *Repository  `json:"new_repository"`
	NewIssue      *Issue       `json:"new_issue"`
}

type IssuesFields struct {
	Issue     Issue      `json:"issue"`
	Label     *Label     `json:"label"`
	Assignee  *User      `json:"assignee"`
	Milestone *Milestone `json:"milestone"`
	Changes   *Changes   `json:"changes"`
}

func (*IssuesFields) Kind() Kind { return KindIssues }

type BranchRef struct {
	Ref  string `json:"ref"`
	User User   `json:"user"`
}

type PullRequest struct {
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	HTMLURL string    `json:"html_url"`
	User    User      `json:"user"`
	Merged  bool      `json:"merged"`
	Draft   bool      `json:"draft"`
	Base    BranchRef `json:"base"`
	Head    BranchRef `json:"head"`
}

type PullRequestFields struct {
	PullRequest PullRequest `json:"pull_request"`
	Label       *Label      `json:"label"`
	Assignee    *User       `json:"assignee"`
	Changes     *Changes    `json:"changes"`
}

func (*PullRequestFields) Kind() Kind { return KindPullRequest }

// Review states as sent by the forge.
const (
	ReviewApproved         = "approved"
	ReviewChangesRequested = "changes_requested"
	ReviewCommented        = "commented"
	ReviewDismissed        = "dismissed"
)

type Review struct {
	State   string  `json:"state"`
	Body    *string `json:"body"`
	HTMLURL string  `json:"html_url"`
	User    User    `json:"user"`
}

type ReviewFields struct {
	Review      Review      `json:"review"`
	PullRequest PullRequest `json:"pull_request"`
}

func (*ReviewFields) Kind() Kind { return KindPullRequestReview }

// Comment is shared by issue, commit and review comments. Body is nil when
// the payload carried no body at all.
type Comment struct {
	Body     *string `json:"body"`
	HTMLURL  string  `json:"html_url"`
	CommitID string  `json:"commit_id"`
}

type ReviewCommentFields struct {
	Comment     Comment     `json:"comment"`
	PullRequest PullRequest `json:"pull_request"`
}

func (*ReviewCommentFields) Kind() Kind { return KindPullRequestReviewComment }

type IssueCommentFields struct {
	Comment Comment `json:"comment"`
	Issue   Issue   `json:"issue"`
}

func (*IssueCommentFields) Kind() Kind { return KindIssueComment }

type CommitCommentFields struct {
	Comment Comment `json:"comment"`
}

func (*CommitCommentFields) Kind() Kind { return KindCommitComment }

type WikiPage struct {
	PageName string  `json:"page_name"`
	Title    string  `json:"title"`
	Summary  *string `json:"summary"`
	Action   string  `json:"action"`
	HTMLURL  string  `json:"html_url"`
}

type GollumFields struct {
	Pages []WikiPage `json:"pages"`
}

func (*GollumFields) Kind() Kind { return KindGollum }

type WatchFields struct{}

func (*WatchFields) Kind() Kind { return KindWatch }

type StatusBranch struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type StatusFields struct {
	SHA         string         `json:"sha"`
	State       string         `json:"state"`
	Description string         `json:"description"`
	TargetURL   string         `json:"target_url"`
	Branches    []StatusBranch `json:"branches"`
}

func (*StatusFields) Kind() Kind { return KindStatus }

type Release struct {
	Name       string `json:"name"`
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
	Author     User   `json:"author"`
}

type ReleaseFields struct {
	Release Release `json:"release"`
}

func (*ReleaseFields) Kind() Kind { return KindRelease }

type PingFields struct {
	Zen    string `json:"zen"`
	HookID int64  `json:"hook_id"`
}

func (*PingFields) Kind() Kind { return KindPing }

// UnknownFields is used for event kinds the service does not render.
type UnknownFields struct {
	Name string
}

func (*UnknownFields) Kind() Kind { return KindUnknown }
