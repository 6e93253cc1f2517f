package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the feed surface. Field names mirror the wire
// protocol used by the extension so agents and the browser speak the
// same vocabulary.

var feedAddToolDef = mcp.NewTool("feed_add",
	mcp.WithDescription("Add a captured post to the feed. Pass saved=true to put it in the saved collection, which persists across restarts."),
	mcp.WithString("caption", mcp.Description("Post caption or ad copy")),
	mcp.WithString("author", mcp.Description("Author or advertiser name")),
	mcp.WithString("content", mcp.Description("Body content when the source is not a caption-style post")),
	mcp.WithString("imageDataUrl", mcp.Description("Image as a data: URL")),
	mcp.WithString("videoUrl", mcp.Description("Video URL")),
	mcp.WithString("postUrl", mcp.Description("Canonical link to the original post")),
	mcp.WithString("directLink", mcp.Description("Direct link when no canonical post URL exists")),
	mcp.WithString("domainName", mcp.Description("Source domain, e.g. linkedin.com")),
	mcp.WithString("platform", mcp.Description("Display platform name, e.g. LinkedIn")),
	mcp.WithBoolean("saved", mcp.Description("Insert into the saved collection instead of the transient feed")),
)

var feedListToolDef = mcp.NewTool("feed_list",
	mcp.WithDescription("List feed items, newest first. Defaults to the transient feed; pass saved=true for the saved collection."),
	mcp.WithBoolean("saved", mcp.Description("List the saved collection instead of the transient feed")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of items to return (0 = all)")),
)

var feedDeleteToolDef = mcp.NewTool("feed_delete",
	mcp.WithDescription("Delete a saved post by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
)

var creativeSaveToolDef = mcp.NewTool("creative_save",
	mcp.WithDescription("Process an ad creative through the platform pipeline and add the resulting items to the feed."),
	mcp.WithString("platform", mcp.Required(), mcp.Description("Platform key: linkedin, googleads, metalibrary, or any other value for generic handling")),
	mcp.WithString("advertiser", mcp.Description("Advertiser name")),
	mcp.WithString("campaign", mcp.Description("Campaign name")),
	mcp.WithString("adCopy", mcp.Description("Ad copy text")),
	mcp.WithString("adId", mcp.Description("Platform ad id, carried through for Meta Ads Library")),
	mcp.WithString("videoUrl", mcp.Description("Creative video URL")),
	mcp.WithString("timestamp", mcp.Description("Capture timestamp")),
	mcp.WithArray("images", mcp.Description("Creative image URLs"), mcp.Items(map[string]any{"type": "string"})),
)

var feedStatusToolDef = mcp.NewTool("feed_status",
	mcp.WithDescription("Report feed occupancy and session login state."),
)
