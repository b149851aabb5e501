package model_test

import (
	"testing"

	"forge-relay/internal/model"
)

func TestParseKind(t *testing.T) {
	tests := map[string]model.Kind{
		"push":                        model.KindPush,
		"issues":                      model.KindIssues,
		"pull_request_review_comment": model.KindPullRequestReviewComment,
		"gollum":                      model.KindGollum,
		"ping":                        model.KindPing,
		"deployment":                  model.KindUnknown,
		"":                            model.KindUnknown,
	}
	for in, want := range tests {
		if got := model.ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := model.KindPullRequest.String(); got != "pull_request" {
		t.Errorf("unexpected name %q", got)
	}
	if got := model.Kind(999).String(); got != "unknown" {
		t.Errorf("out-of-range kind should print unknown, got %q", got)
	}
}

func TestParseAction(t *testing.T) {
	tests := map[string]model.Action{
		"":                   model.ActionNone,
		"opened":             model.ActionOpened,
		"converted_to_draft": model.ActionConvertedToDraft,
		"unknown":            model.ActionUnknown,
		"auto_merge_enabled": model.ActionUnknown,
	}
	for in, want := range tests {
		if got := model.ParseAction(in); got != want {
			t.Errorf("ParseAction(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFieldsKind(t *testing.T) {
	variants := map[model.Kind]model.Fields{
		model.KindPush:                     &model.PushFields{},
		model.KindIssues:                   &model.IssuesFields{},
		model.KindPullRequest:              &model.PullRequestFields{},
		model.KindPullRequestReview:        &model.ReviewFields{},
		model.KindPullRequestReviewComment: &model.ReviewCommentFields{},
		model.KindIssueComment:             &model.IssueCommentFields{},
		model.KindCommitComment:            &model.CommitCommentFields{},
		model.KindGollum:                   &model.GollumFields{},
		model.KindWatch:                    &model.WatchFields{},
		model.KindStatus:                   &model.StatusFields{},
		model.KindRelease:                  &model.ReleaseFields{},
		model.KindPing:                     &model.PingFields{},
		model.KindUnknown:                  &model.UnknownFields{},
	}
	for k, f := range variants {
		if f.Kind() != k {
			t.Errorf("%T reports %v, want %v", f, f.Kind(), k)
		}
	}
}
