// 批量导入知识库文档
//
// 将目录下的 .pdf/.txt/.md 文件导入到指定知识库，用于首次部署或大量资料初始化。
// 指定 -kb 时导入已有知识库，否则按 -name 新建。
//
// 用法: go run scripts/import_documents.go -dir ./materials -name "Biology" -owner Adm488

package main

import (
	"ai_authoring_backend/internal/config"
	"ai_authoring_backend/internal/repository"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/database"
	"ai_authoring_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
)

func main() {
	dir := flag.String("dir", "", "待导入的文档目录")
	kbID := flag.Uint("kb", 0, "已有知识库 ID")
	name := flag.String("name", "", "新建知识库名称")
	owner := flag.String("owner", session.DefaultUserCode, "知识库所属用户编码")
	flag.Parse()

	if *dir == "" || (*kbID == 0 && *name == "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	ctx := context.Background()
	kbs := service.NewKnowledgeBaseService(repository.NewKnowledgeBaseRepository(db), service.NewStorageService(cfg))

	sess := session.NewContext("import", session.NewMemoryStore())
	if err := sess.Set(ctx, session.KeyUserCode, *owner); err != nil {
		log.Fatalf("设置会话失败: %v", err)
	}

	id := *kbID
	if id == 0 {
		kb, err := kbs.Create(ctx, sess, service.CreateKnowledgeBaseRequest{Name: *name})
		if err != nil {
			log.Fatalf("创建知识库失败: %v", err)
		}
		id = kb.ID
		log.Printf("已创建知识库 %q (ID %d)", kb.Name, kb.ID)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("读取目录失败: %v", err)
	}

	imported := 0
	for _, e := range entries {
		if e.IsDir() || !util.HasExtension(e.Name(), util.AllowedDocumentExtensions) {
			continue
		}
		f, err := os.Open(filepath.Join(*dir, e.Name()))
		if err != nil {
			log.Printf("跳过 %s: %v", e.Name(), err)
			continue
		}
		doc, err := kbs.AddDocument(ctx, sess, id, e.Name(), f)
		f.Close()
		if err != nil {
			log.Printf("跳过 %s: %v", e.Name(), err)
			continue
		}
		imported++
		log.Printf("已导入 %s (%d 字)", doc.FileName, doc.CharCount)
	}

	log.Printf("完成！共导入 %d 个文档", imported)
}
