package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "scenario":
		scenarioCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Postgram Simulator - Development tool that drives a running server

USAGE:
  simulator <command> [options]

COMMANDS:
  scenario  Two users create, like and unlike a post, then exercise a reply thread
  populate  Seed users, posts, comment threads and likes
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Run the like/unlike scenario and report each step
  simulator scenario

  # Seed 5 users with 3 posts each and 4-deep reply threads
  simulator populate --users=5 --posts=3 --depth=4`)
}

func fail(step string, err error) {
	fmt.Printf("FAILED\n  %s: %v\n", step, err)
	os.Exit(1)
}

func check(ok bool, format string, args ...interface{}) {
	if !ok {
		fmt.Printf("FAILED\n  "+format+"\n", args...)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func scenarioCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	depth := fs.Int("depth", 3, "Depth of the reply chain to create and delete")
	fs.Parse(args)

	fmt.Println("=== Postgram Simulator: Like Scenario ===")
	fmt.Println()

	u1 := NewAPIClient(apiURL)
	u2 := NewAPIClient(apiURL)

	fmt.Print("Signing up U1 and U2... ")
	if err := u1.SignUp("u1"); err != nil {
		fail("u1", err)
	}
	if err := u2.SignUp("u2"); err != nil {
		fail("u2", err)
	}
	fmt.Printf("OK (%s, %s)\n", u1.User.Email, u2.User.Email)

	fmt.Print("U1 creates post {A, B}... ")
	post, err := u1.CreatePost("A", "B")
	if err != nil {
		fail("create post", err)
	}
	check(post.LikesCount == 0, "new post has likesCount %d", post.LikesCount)

	fmt.Print("GET /posts includes it with likesCount=0... ")
	posts, err := u2.ListPosts()
	if err != nil {
		fail("list posts", err)
	}
	found := false
	for _, p := range posts {
		if p.ID == post.ID && p.LikesCount == 0 {
			found = true
		}
	}
	check(found, "post %s missing from list", post.ID)

	fmt.Print("U2 likes... ")
	like, err := u2.ToggleLike(post.ID)
	if err != nil {
		fail("like", err)
	}
	check(like.LikesCount == 1 && like.Liked, "got %+v", like)

	fmt.Print("U2 likes again... ")
	like, err = u2.ToggleLike(post.ID)
	if err != nil {
		fail("unlike", err)
	}
	check(like.LikesCount == 0 && !like.Liked, "got %+v", like)

	fmt.Printf("U1 builds a %d deep reply chain... ", *depth)
	root, err := u1.Comment(post.ID, "root", nil)
	if err != nil {
		fail("comment", err)
	}
	parent := root.ID
	for i := 0; i < *depth; i++ {
		reply, err := u2.Comment(post.ID, fmt.Sprintf("reply %d", i+1), &parent)
		if err != nil {
			fail("reply", err)
		}
		parent = reply.ID
	}
	fmt.Println("OK")

	fmt.Print("U2 cannot delete U1's comment... ")
	_, err = u2.DeleteComment(root.ID)
	check(err != nil, "delete by non owner succeeded")

	fmt.Print("U1 deletes the root... ")
	result, err := u1.DeleteComment(root.ID)
	if err != nil {
		fail("delete comment", err)
	}
	check(result.Deleted == int64(*depth+1), "deleted %d rows, want %d", result.Deleted, *depth+1)

	fmt.Print("Thread is empty... ")
	tree, err := u1.CommentTree(post.ID)
	if err != nil {
		fail("comment tree", err)
	}
	check(len(tree) == 0, "tree still has %d comments", len(tree))

	fmt.Println()
	fmt.Println("Scenario passed")
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	users := fs.Int("users", 3, "Number of users to create")
	postsPerUser := fs.Int("posts", 2, "Posts per user")
	depth := fs.Int("depth", 2, "Reply depth under each top level comment")
	fs.Parse(args)

	if *users < 1 {
		fmt.Println("Error: --users must be at least 1")
		os.Exit(1)
	}

	fmt.Println("=== Postgram Simulator: Populate ===")
	fmt.Println()

	clients := make([]*APIClient, *users)
	for i := range clients {
		clients[i] = NewAPIClient(apiURL)
		if err := clients[i].SignUp(fmt.Sprintf("sim%d", i+1)); err != nil {
			fail("sign up", err)
		}
		fmt.Printf("  user %s\n", clients[i].User.Email)
	}

	var posts []*Post
	for i, c := range clients {
		for j := 0; j < *postsPerUser; j++ {
			post, err := c.CreatePost(
				fmt.Sprintf("Post %d by user %d", j+1, i+1),
				fmt.Sprintf("Seeded *markdown* body number **%d**.", j+1),
			)
			if err != nil {
				fail("create post", err)
			}
			posts = append(posts, post)
		}
	}
	fmt.Printf("Created %d posts\n", len(posts))

	comments, likes := 0, 0
	for _, post := range posts {
		commenter := clients[rand.Intn(len(clients))]
		root, err := commenter.Comment(post.ID, "Top level comment", nil)
		if err != nil {
			fail("comment", err)
		}
		comments++

		parent := root.ID
		for d := 0; d < *depth; d++ {
			replier := clients[rand.Intn(len(clients))]
			reply, err := replier.Comment(post.ID, fmt.Sprintf("Reply at depth %d", d+1), &parent)
			if err != nil {
				fail("reply", err)
			}
			parent = reply.ID
			comments++
		}

		for _, c := range clients {
			if rand.Intn(2) == 0 {
				continue
			}
			if _, err := c.ToggleLike(post.ID); err != nil {
				fail("like", err)
			}
			likes++
		}
	}

	fmt.Printf("Created %d comments and %d likes\n", comments, likes)
}
