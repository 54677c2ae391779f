package engine

import "testing"

func TestResourceIndexLookups(t *testing.T) {
	resources := []ResourceRecord{
		{File: "main.tf", ResourceType: "aws_s3_bucket", ResourceName: "logs"},
		{File: "net.tf", ResourceType: "aws_security_group", ResourceName: "web"},
		{File: "dns.tf", ResourceType: "aws_route53_record", ResourceName: "web"},
	}
	ix := NewResourceIndex(resources)

	r, ok := ix.ByExactID("aws_s3_bucket.logs")
	if !ok {
		t.Fatal("expected exact id lookup to succeed")
	}
	if r.File != "main.tf" {
		t.Errorf("expected file main.tf, got %s", r.File)
	}

	if _, ok := ix.ByExactID("aws_s3_bucket.missing"); ok {
		t.Error("expected lookup of unknown id to fail")
	}

	owners := ix.ByName("web")
	if len(owners) != 2 {
		t.Errorf("expected 2 records named web, got %d", len(owners))
	}
	if ix.Len() != 3 {
		t.Errorf("expected 3 indexed ids, got %d", ix.Len())
	}
}

func TestResourceIndexDuplicateIDLastWriteWins(t *testing.T) {
	resources := []ResourceRecord{
		{File: "a.tf", ResourceType: "aws_s3_bucket", ResourceName: "logs"},
		{File: "b.tf", ResourceType: "aws_s3_bucket", ResourceName: "logs"},
	}
	ix := NewResourceIndex(resources)

	r, ok := ix.ByExactID("aws_s3_bucket.logs")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if r.File != "b.tf" {
		t.Errorf("expected later record to win, got file %s", r.File)
	}
}
