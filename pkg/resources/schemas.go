// Package resources declares the GitHub v3 resource schemas and the
// resource-specific operations built on ghapi entities and collections.
package resources

import (
	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// Schema type tags.
const (
	TypeUser         = "user"
	TypeOrganization = "organization"
	TypeTeam         = "team"
	TypeKey          = "key"
	TypeRepo         = "repo"
	TypeIssue        = "issue"
	TypeComment      = "comment"
	TypeIssueEvent   = "issue_event"
	TypeLabel        = "label"
	TypeMilestone    = "milestone"
	TypePull         = "pull"
	TypePullBranch   = "pull_branch"
	TypeBranch       = "branch"
	TypeTag          = "tag"
	TypeHook         = "hook"
	TypeDownload     = "download"
	TypeCommit       = "commit"
	TypeGitAuthor    = "git_author"
	TypeGitTree      = "git_tree"
	TypeReference    = "reference"
)

var (
	User = &ghapi.Schema{
		Name:         TypeUser,
		DefaultField: "login",
		Fields: []ghapi.Field{
			ghapi.Scalar("login"),
			ghapi.Scalar("id"),
			ghapi.Scalar("avatar_url"),
			ghapi.Scalar("url"),
			ghapi.Writable("name"),
			ghapi.Writable("company"),
			ghapi.Writable("blog"),
			ghapi.Writable("location"),
			ghapi.Writable("email"),
			ghapi.Writable("hireable"),
			ghapi.Writable("bio"),
			ghapi.Scalar("public_repos"),
			ghapi.Scalar("public_gists"),
			ghapi.Scalar("followers"),
			ghapi.Scalar("following"),
			ghapi.Scalar("html_url"),
			ghapi.Timestamp("created_at"),
			ghapi.Scalar("type"),
		},
	}

	Organization = &ghapi.Schema{
		Name:         TypeOrganization,
		DefaultField: "login",
		Fields: []ghapi.Field{
			ghapi.Scalar("login"),
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Scalar("html_url"),
			ghapi.Scalar("avatar_url"),
			ghapi.Scalar("type"),
			ghapi.Writable("name"),
			ghapi.Writable("company"),
			ghapi.Writable("blog"),
			ghapi.Writable("location"),
			ghapi.Writable("email"),
			ghapi.Scalar("public_repos"),
			ghapi.Scalar("public_gists"),
			ghapi.Scalar("followers"),
			ghapi.Scalar("following"),
			ghapi.Timestamp("created_at"),
		},
	}

	Team = &ghapi.Schema{
		Name: TypeTeam,
		Fields: []ghapi.Field{
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Writable("name"),
			ghapi.Writable("permission"),
			ghapi.Scalar("members_count"),
			ghapi.Scalar("repos_count"),
		},
	}

	Key = &ghapi.Schema{
		Name: TypeKey,
		Fields: []ghapi.Field{
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Writable("title"),
			ghapi.Writable("key"),
		},
	}

	Repo = &ghapi.Schema{
		Name: TypeRepo,
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Scalar("id"),
			ghapi.Scalar("full_name"),
			ghapi.Scalar("html_url"),
			ghapi.Scalar("clone_url"),
			ghapi.Scalar("git_url"),
			ghapi.Scalar("ssh_url"),
			ghapi.Scalar("svn_url"),
			ghapi.Ref("owner", TypeUser),
			ghapi.Writable("name"),
			ghapi.Writable("description"),
			ghapi.Writable("homepage"),
			ghapi.Scalar("language"),
			ghapi.Writable("private"),
			ghapi.Scalar("fork"),
			ghapi.Scalar("forks"),
			ghapi.Scalar("watchers"),
			ghapi.Scalar("size"),
			ghapi.Scalar("master_branch"),
			ghapi.Writable("default_branch"),
			ghapi.Scalar("open_issues"),
			ghapi.Timestamp("pushed_at"),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("updated_at"),
			ghapi.Ref("organization", TypeOrganization),
			ghapi.Ref("parent", TypeRepo),
			ghapi.Ref("source", TypeRepo),
			ghapi.Writable("has_issues"),
			ghapi.Writable("has_wiki"),
			ghapi.Writable("has_downloads"),
		},
	}

	Issue = &ghapi.Schema{
		Name: TypeIssue,
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Scalar("html_url"),
			ghapi.Scalar("number"),
			ghapi.Writable("state"),
			ghapi.Writable("title"),
			ghapi.Writable("body"),
			ghapi.Ref("user", TypeUser),
			ghapi.Writable("labels"),
			ghapi.Ref("assignee", TypeUser),
			ghapi.Ref("milestone", TypeMilestone),
			ghapi.Scalar("comments"),
			ghapi.Ref("pull_request", TypePull),
			ghapi.Timestamp("closed_at"),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("updated_at"),
		},
		Transform: transformIssue,
	}

	Comment = &ghapi.Schema{
		Name: TypeComment,
		Fields: []ghapi.Field{
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Writable("body"),
			ghapi.Ref("user", TypeUser),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("updated_at"),
		},
	}

	IssueEvent = &ghapi.Schema{
		Name: TypeIssueEvent,
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Ref("actor", TypeUser),
			ghapi.Scalar("event"),
			ghapi.Scalar("commit_id"),
			ghapi.Timestamp("created_at"),
		},
	}

	Label = &ghapi.Schema{
		Name:         TypeLabel,
		DefaultField: "name",
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Writable("name"),
			ghapi.Writable("color"),
		},
	}

	Milestone = &ghapi.Schema{
		Name: TypeMilestone,
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Scalar("number"),
			ghapi.Writable("state"),
			ghapi.Writable("title"),
			ghapi.Writable("description"),
			ghapi.Ref("creator", TypeUser),
			ghapi.Scalar("open_issues"),
			ghapi.Scalar("closed_issues"),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("due_on"),
		},
	}

	Pull = &ghapi.Schema{
		Name:      TypePull,
		DeriveURL: pullURLFromHTML,
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Scalar("html_url"),
			ghapi.Scalar("diff_url"),
			ghapi.Scalar("patch_url"),
			ghapi.Scalar("issue_url"),
			ghapi.Scalar("number"),
			ghapi.Writable("state"),
			ghapi.Writable("title"),
			ghapi.Writable("body"),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("updated_at"),
			ghapi.Timestamp("closed_at"),
			ghapi.Timestamp("merged_at"),
			ghapi.Scalar("merged"),
			ghapi.Scalar("mergeable"),
			ghapi.Ref("merged_by", TypeUser),
			ghapi.Scalar("comments"),
			ghapi.Scalar("commits"),
			ghapi.Scalar("additions"),
			ghapi.Scalar("deletions"),
			ghapi.Scalar("changed_files"),
			ghapi.Ref("head", TypePullBranch),
			ghapi.Ref("base", TypePullBranch),
		},
	}

	PullBranch = &ghapi.Schema{
		Name: TypePullBranch,
		Fields: []ghapi.Field{
			ghapi.Scalar("label"),
			ghapi.Scalar("ref"),
			ghapi.Scalar("sha"),
			ghapi.Ref("user", TypeUser),
			ghapi.Ref("repo", TypeRepo),
		},
	}

	Branch = &ghapi.Schema{
		Name: TypeBranch,
		Fields: []ghapi.Field{
			ghapi.Scalar("name"),
			ghapi.Ref("commit", TypeCommit),
		},
	}

	Tag = &ghapi.Schema{
		Name: TypeTag,
		Fields: []ghapi.Field{
			ghapi.Scalar("name"),
			ghapi.Scalar("zipball_url"),
			ghapi.Scalar("tarball_url"),
			ghapi.Ref("commit", TypeCommit),
		},
	}

	Hook = &ghapi.Schema{
		Name: TypeHook,
		Fields: []ghapi.Field{
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Scalar("name"),
			ghapi.Writable("active"),
			ghapi.Writable("events"),
			ghapi.Writable("config"),
			ghapi.Scalar("last_response"),
			ghapi.Timestamp("created_at"),
			ghapi.Timestamp("updated_at"),
		},
	}

	Download = &ghapi.Schema{
		Name: TypeDownload,
		Fields: []ghapi.Field{
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Scalar("html_url"),
			ghapi.Scalar("name"),
			ghapi.Scalar("description"),
			ghapi.Scalar("size"),
			ghapi.Scalar("download_count"),
			ghapi.Scalar("content_type"),
			ghapi.Timestamp("created_at"),
		},
	}

	Commit = &ghapi.Schema{
		Name:         TypeCommit,
		DefaultField: "sha",
		Fields: []ghapi.Field{
			ghapi.Scalar("sha"),
			ghapi.Scalar("url"),
			ghapi.Scalar("message"),
			ghapi.Scalar("parents"),
			ghapi.Ref("tree", TypeGitTree),
			ghapi.Ref("author", TypeGitAuthor),
			ghapi.Ref("committer", TypeGitAuthor),
		},
	}

	GitAuthor = &ghapi.Schema{
		Name: TypeGitAuthor,
		Fields: []ghapi.Field{
			ghapi.Scalar("name"),
			ghapi.Scalar("email"),
			ghapi.Timestamp("date"),
		},
	}

	GitTree = &ghapi.Schema{
		Name:         TypeGitTree,
		DefaultField: "sha",
		Fields: []ghapi.Field{
			ghapi.Scalar("sha"),
			ghapi.Scalar("url"),
		},
	}

	Reference = &ghapi.Schema{
		Name: TypeReference,
		Fields: []ghapi.Field{
			ghapi.Scalar("ref"),
			ghapi.Scalar("url"),
			ghapi.Ref("object", TypeCommit),
		},
	}
)

var registry = mustResolve(
	User, Organization, Team, Key, Repo, Issue, Comment, IssueEvent, Label,
	Milestone, Pull, PullBranch, Branch, Tag, Hook, Download, Commit,
	GitAuthor, GitTree, Reference,
)

func mustResolve(schemas ...*ghapi.Schema) *ghapi.Registry {
	r := ghapi.NewRegistry()
	r.Register(schemas...)

	err := r.Resolve()
	if err != nil {
		panic(err)
	}

	return r
}

// Registry returns the resolved registry of every GitHub schema.
func Registry() *ghapi.Registry {
	return registry
}
